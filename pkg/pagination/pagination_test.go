package pagination_test

import (
	"net/url"
	"testing"

	"github.com/scriba-dms/scriba/pkg/pagination"
)

var cfg = pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

func TestNormalizeDefaults(t *testing.T) {
	req := pagination.PageRequest{}
	req.Normalize(cfg)

	if req.Page != 1 {
		t.Errorf("Page = %d, want 1", req.Page)
	}
	if req.PageSize != 20 {
		t.Errorf("PageSize = %d, want 20", req.PageSize)
	}
}

func TestNormalizeCapsPageSize(t *testing.T) {
	req := pagination.PageRequest{Page: 3, PageSize: 5000}
	req.Normalize(cfg)

	if req.PageSize != 100 {
		t.Errorf("PageSize = %d, want 100", req.PageSize)
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("page", "2")
	values.Set("page_size", "50")
	values.Set("search", "invoice")
	values.Set("sort", "-ScanTime")

	req := pagination.PageRequestFromQuery(values, cfg)

	if req.Page != 2 || req.PageSize != 50 {
		t.Errorf("page/page_size = %d/%d, want 2/50", req.Page, req.PageSize)
	}
	if req.Search == nil || *req.Search != "invoice" {
		t.Errorf("Search = %v, want invoice", req.Search)
	}
	if len(req.Sort) != 1 || req.Sort[0].Field != "ScanTime" || !req.Sort[0].Descending {
		t.Errorf("Sort = %v, want descending ScanTime", req.Sort)
	}
}

func TestNewPageResultRoundsUp(t *testing.T) {
	result := pagination.NewPageResult([]int{1, 2, 3}, 45, 1, 20)

	if result.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", result.TotalPages)
	}
}

func TestNewPageResultEmptyData(t *testing.T) {
	result := pagination.NewPageResult[int](nil, 0, 1, 20)

	if result.Data == nil {
		t.Error("Data is nil, want empty slice")
	}
	if result.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1", result.TotalPages)
	}
}
