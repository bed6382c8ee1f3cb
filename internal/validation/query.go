package validation

import "strconv"

// ListQueryRaw carries the raw pagination/filter query parameters as received
// on the wire. Empty strings mean "not provided".
type ListQueryRaw struct {
	Page   string
	Limit  string
	Sort   string
	Status string
}

// ListConfig is the normalized pagination/filter configuration.
type ListConfig struct {
	Page   int    `json:"page" validate:"gte=1"`
	Limit  int    `json:"limit" validate:"gte=1,lte=100"`
	Sort   string `json:"sort" validate:"oneof=createdAt -createdAt updatedAt -updatedAt name -name email -email age -age"`
	Status string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// ValidateListQuery parses and validates the listing parameters. Out-of-range
// or non-numeric values fail with structured errors; nothing is clamped.
func ValidateListQuery(raw ListQueryRaw) (ListConfig, Errors) {
	cfg := ListConfig{Page: 1, Limit: 10, Sort: "-createdAt", Status: raw.Status}

	var errs Errors
	if raw.Page != "" {
		n, err := strconv.Atoi(raw.Page)
		if err != nil {
			errs = append(errs, FieldError{Field: "page", Message: "Page must be a whole number"})
		} else {
			cfg.Page = n
		}
	}
	if raw.Limit != "" {
		n, err := strconv.Atoi(raw.Limit)
		if err != nil {
			errs = append(errs, FieldError{Field: "limit", Message: "Limit must be a whole number"})
		} else {
			cfg.Limit = n
		}
	}
	if raw.Sort != "" {
		cfg.Sort = raw.Sort
	}

	errs = append(errs, collect(validate.Struct(cfg))...)
	if len(errs) > 0 {
		return ListConfig{}, errs
	}
	return cfg, nil
}
