package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// более устойчиво к типам (int / int64 / float64 / string)
func getIntFromCtx(c *gin.Context, key string) (int, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		if n, err := strconv.Atoi(t); err == nil {
			return n, true
		}
	}
	return 0, false
}

func getUserID(c *gin.Context) int {
	id, _ := getIntFromCtx(c, "user_id")
	return id
}

// getPageParams — page/page_size из query. page_size не превышает
// настроенный размер страницы.
func getPageParams(c *gin.Context, pageSize int) (limit, offset int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(pageSize)))
	if err != nil || limit < 1 || limit > pageSize {
		limit = pageSize
	}
	offset = (page - 1) * limit
	return limit, offset
}

func paged(count int, results interface{}) gin.H {
	return gin.H{"count": count, "results": results}
}
