package rules

// Page clamps a requested page and limit. A zero limit means the caller did
// not ask for paging and is answered with def.
func Page(page, limit, def, max int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = def
	}
	if max > 0 && limit > max {
		limit = max
	}
	return page, limit
}
