package pagination

import "testing"

func TestValidateClampsParams(t *testing.T) {
	tests := []struct {
		in, want PaginationParams
	}{
		{PaginationParams{Page: 0, PerPage: 0}, PaginationParams{Page: 1, PerPage: 15}},
		{PaginationParams{Page: -3, PerPage: 500}, PaginationParams{Page: 1, PerPage: 100}},
		{PaginationParams{Page: 4, PerPage: 20}, PaginationParams{Page: 4, PerPage: 20}},
	}
	for _, tt := range tests {
		p := tt.in
		p.Validate()
		if p != tt.want {
			t.Errorf("Validate(%+v) = %+v, want %+v", tt.in, p, tt.want)
		}
	}

	if off := (&PaginationParams{Page: 3, PerPage: 20}).Offset(); off != 40 {
		t.Errorf("Offset = %d, want 40", off)
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 25)
	if p.TotalPages != 3 || !p.HasNext || !p.HasPrev {
		t.Errorf("page 2 of 25 items = %+v", p)
	}

	last := NewPagination(3, 10, 25)
	if last.HasNext {
		t.Error("last page must not have a next page")
	}

	empty := NewPagination(1, 10, 0)
	if empty.TotalPages != 0 || empty.HasNext || empty.HasPrev {
		t.Errorf("empty = %+v", empty)
	}
}

func TestNewPaginatedResultNeverNil(t *testing.T) {
	res := NewPaginatedResult[int](nil, NewPagination(1, 10, 0))
	if res.Items == nil {
		t.Error("items must be an empty slice so it encodes as []")
	}
}
