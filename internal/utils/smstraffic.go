package utils

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"afisha/internal/config"
)

// SMSTrafficClient — отправка SMS через сервис smstraffic.
type SMSTrafficClient struct {
	APIURL     string
	Login      string
	Password   string
	Originator string
	DryRun     bool

	HTTPClient *http.Client
}

type smsTrafficReply struct {
	XMLName     xml.Name `xml:"reply"`
	Result      string   `xml:"result"`
	Code        int      `xml:"code"`
	Description string   `xml:"description"`
}

func NewSMSTrafficClient(cfg config.SMSTrafficConfig) *SMSTrafficClient {
	return &SMSTrafficClient{
		APIURL:     cfg.APIURL,
		Login:      cfg.Login,
		Password:   cfg.Password,
		Originator: cfg.Originator,
		DryRun:     cfg.DryRun,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send — отправка сообщения на номер (или имитация в dry-run).
func (c *SMSTrafficClient) Send(phone, message string) error {
	if c.DryRun || c.Login == "" {
		fmt.Printf("[smstraffic][dry-run] to=%s text=%q\n", phone, message)
		return nil
	}

	form := url.Values{
		"login":    {c.Login},
		"password": {c.Password},
		"rus":      {"5"},
		"phones":   {phone},
		"message":  {message},
	}
	if c.Originator != "" {
		form.Set("originator", c.Originator)
	}

	resp, err := c.HTTPClient.PostForm(c.APIURL, form)
	if err != nil {
		return fmt.Errorf("smstraffic request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("smstraffic read response: %w", err)
	}

	var reply smsTrafficReply
	if err := xml.Unmarshal(body, &reply); err != nil {
		return fmt.Errorf("smstraffic parse response: %w", err)
	}
	if reply.Code != 0 {
		return fmt.Errorf("smstraffic returned error code %d: %s", reply.Code, reply.Description)
	}
	return nil
}
