package utils

import (
	"net/http"
	"strconv"

	"github.com/festive-labs/santagames-backend/internal/pkg/reject"
	"github.com/gin-gonic/gin"
)

const (
	pageSizeMissing  string = "error.request.page-size-missing"
	pageTokenMissing string = "error.request.page-token-missing"
)

const maxPageSize = 100

type PageRequest struct {
	Size   int
	Token  int
	Offset int
}

func NewPageRequest(c *gin.Context) (PageRequest, *reject.ProblemWithTrace) {
	pageSize, pageSizeError := strconv.Atoi(c.Query("page_size"))

	if pageSizeError != nil {
		return PageRequest{}, &reject.ProblemWithTrace{
			Problem: reject.NewProblem().
				WithTitle("Page size not specified").
				WithStatus(http.StatusBadRequest).
				WithCode(pageSizeMissing).
				Build(),
			Cause: pageSizeError,
		}
	}

	pageToken, pageTokenError := strconv.Atoi(c.Query("page_token"))

	if pageTokenError != nil {
		return PageRequest{}, &reject.ProblemWithTrace{
			Problem: reject.NewProblem().
				WithTitle("Page token not specified").
				WithStatus(http.StatusBadRequest).
				WithCode(pageTokenMissing).
				Build(),
			Cause: pageTokenError,
		}
	}

	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return PageRequest{
		Size:   pageSize,
		Token:  pageToken,
		Offset: pageSize * pageToken,
	}, nil
}

// NextPageToken returns the follow-up token, or nil when the current page
// already covers the remaining items.
func (p PageRequest) NextPageToken(totalCount int64) *int64 {
	if int(totalCount) > (p.Token+1)*p.Size {
		next := int64(p.Token + 1)
		return &next
	}
	return nil
}
