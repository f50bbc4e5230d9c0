package handler

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/Shivanand-hulikatti/autolease/internal/model"
	"github.com/shopspring/decimal"
)

// queryReader parses optional query parameters, keeping the first failure.
type queryReader struct {
	q   url.Values
	err error
}

func newQueryReader(q url.Values) *queryReader { return &queryReader{q: q} }

func (qr *queryReader) fail(field, msg string) {
	if qr.err == nil {
		qr.err = &model.ValidationError{Field: field, Message: msg}
	}
}

func (qr *queryReader) str(name string) string {
	return strings.TrimSpace(qr.q.Get(name))
}

func (qr *queryReader) optInt(name string) *int {
	s := qr.str(name)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		qr.fail(name, "must be an integer")
		return nil
	}
	return &n
}

func (qr *queryReader) integer(name string) int {
	if n := qr.optInt(name); n != nil {
		return *n
	}
	return 0
}

func (qr *queryReader) optInt64(name string) *int64 {
	s := qr.str(name)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		qr.fail(name, "must be an integer")
		return nil
	}
	return &n
}

func (qr *queryReader) optBool(name string) *bool {
	s := qr.str(name)
	if s == "" {
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		qr.fail(name, "must be true or false")
		return nil
	}
	return &b
}

func (qr *queryReader) optDecimal(name string) *decimal.Decimal {
	s := qr.str(name)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		qr.fail(name, "must be a number")
		return nil
	}
	return &d
}

func (qr *queryReader) optString(name string) *string {
	if s := qr.str(name); s != "" {
		return &s
	}
	return nil
}

func (qr *queryReader) page() model.Page {
	return model.Page{Number: qr.integer("pageNumber"), Size: qr.integer("pageSize")}
}

// sort reads sortBy and sortDescending; listings default to newest first.
func (qr *queryReader) sort() model.Sort {
	dir := "desc"
	if d := qr.optBool("sortDescending"); d != nil && !*d {
		dir = "asc"
	}
	return model.ParseSort(qr.str("sortBy"), dir)
}

func carFilter(q url.Values) (model.CarFilter, error) {
	qr := newQueryReader(q)
	f := model.CarFilter{
		Search:       qr.str("searchTerm"),
		Make:         qr.str("make"),
		Year:         qr.optInt("year"),
		MinPrice:     qr.optDecimal("minPrice"),
		MaxPrice:     qr.optDecimal("maxPrice"),
		IsAvailable:  qr.optBool("isAvailable"),
		SalesAgentID: qr.optInt64("salesAgentId"),
		OwnerID:      qr.optString("ownerId"),
		Sort:         qr.sort(),
		Page:         qr.page(),
	}
	return f, qr.err
}

func offerFilter(q url.Values) (model.OfferFilter, error) {
	qr := newQueryReader(q)
	f := model.OfferFilter{
		Search:       qr.str("searchTerm"),
		MinDiscount:  qr.optDecimal("minDiscount"),
		MaxPrice:     qr.optDecimal("maxPrice"),
		IsActive:     qr.optBool("isActive"),
		IsExpired:    qr.optBool("isExpired"),
		CarID:        qr.optInt64("carId"),
		SalesAgentID: qr.optInt64("salesAgentId"),
		Sort:         qr.sort(),
		Page:         qr.page(),
	}
	return f, qr.err
}

func agentFilter(q url.Values) (model.SalesAgentFilter, error) {
	qr := newQueryReader(q)
	f := model.SalesAgentFilter{
		Search:            qr.str("searchTerm"),
		Department:        qr.str("department"),
		MinCommissionRate: qr.optDecimal("minCommissionRate"),
		IsActive:          qr.optBool("isActive"),
		Sort:              qr.sort(),
		Page:              qr.page(),
	}
	return f, qr.err
}

func interestFilter(q url.Values) (model.InterestFilter, error) {
	qr := newQueryReader(q)
	f := model.InterestFilter{
		Days:   qr.integer("days"),
		Search: qr.str("searchTerm"),
		Limit:  qr.integer("limit"),
	}
	return f, qr.err
}
