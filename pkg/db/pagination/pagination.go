package pagination

import (
	"encoding/base64"
	"strconv"

	"gorm.io/gorm"
)

const defaultPageSize = 50

type Pagination struct {
	PageToken string `form:"page_token" json:"page_token"`
	PageSize  int32  `form:"page_size" json:"page_size"`
}

type PageInfo struct {
	NextPageToken string `json:"next_page_token,omitempty"`
	PageSize      int32  `json:"page_size"`
}

// Apply adds limit/offset to the query. Tokens are opaque base64 offsets.
func Apply(page Pagination, query *gorm.DB) *gorm.DB {
	size := page.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	query = query.Limit(int(size))
	if offset := decodeToken(page.PageToken); offset > 0 {
		query = query.Offset(offset)
	}
	return query
}

// Next returns the page info for the page that was just served. fetched is the
// number of rows returned; a short page means there is no next token.
func Next(page Pagination, fetched int) *PageInfo {
	size := page.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	info := &PageInfo{PageSize: size}
	if int32(fetched) == size {
		info.NextPageToken = encodeToken(decodeToken(page.PageToken) + fetched)
	}
	return info
}

func encodeToken(offset int) string {
	return base64.URLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

func decodeToken(token string) int {
	if token == "" {
		return 0
	}
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return 0
	}
	offset, err := strconv.Atoi(string(raw))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}
