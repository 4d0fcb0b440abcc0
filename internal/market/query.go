package market

import "strconv"

// allSentinel disables the category, pricing, and status filters.
const allSentinel = "all"

// ListParams filters the public model listing.
type ListParams struct {
	Category string
	Pricing  string
	Search   string
	Page     *int
	Limit    *int
}

// PageParams pages an admin listing.
type PageParams struct {
	Page  *int
	Limit *int
}

// AdminListParams filters the admin listing by moderation status.
type AdminListParams struct {
	Status string
	Page   *int
	Limit  *int
}

// Int returns a pointer to v, for optional paging parameters.
func Int(v int) *int {
	return &v
}

// queryParams collects request parameters, skipping unset values.
type queryParams map[string]string

func (q queryParams) text(key, value string) {
	if value != "" {
		q[key] = value
	}
}

func (q queryParams) filter(key, value string) {
	if value != "" && value != allSentinel {
		q[key] = value
	}
}

func (q queryParams) number(key string, value *int) {
	if value != nil {
		q[key] = strconv.Itoa(*value)
	}
}

// QueryParams returns the parameters sent with the public listing.
func (p ListParams) QueryParams() map[string]string {
	q := queryParams{}
	q.filter("category", p.Category)
	q.filter("pricing", p.Pricing)
	q.text("search", p.Search)
	q.number("page", p.Page)
	q.number("limit", p.Limit)
	return q
}

// QueryParams returns the parameters sent with the pending listing.
func (p PageParams) QueryParams() map[string]string {
	q := queryParams{}
	q.number("page", p.Page)
	q.number("limit", p.Limit)
	return q
}

// QueryParams returns the parameters sent with the admin listing.
func (p AdminListParams) QueryParams() map[string]string {
	q := queryParams{}
	q.filter("status", p.Status)
	q.number("page", p.Page)
	q.number("limit", p.Limit)
	return q
}
