package listsync

var _ DataSource[struct{}] = (*Controller[struct{}, int, struct{}])(nil)

// SectionCount implements DataSource. It reports the held snapshot.
func (c *Controller[R, K, V]) SectionCount() int {
	return c.snapshot.SectionCount()
}

// RowCount implements DataSource.
func (c *Controller[R, K, V]) RowCount(section int) int {
	return c.snapshot.RowCount(section)
}

// RenderRow implements DataSource by calling Options.Configure. For a position outside the snapshot it returns reuse unchanged.
func (c *Controller[R, K, V]) RenderRow(pos Position, reuse V) V {
	row, ok := c.snapshot.Row(pos)
	if !ok {
		return reuse
	}
	return c.opts.Configure(pos, row, reuse)
}

// SectionHeader implements DataSource: the section's own header, else the fallback's.
func (c *Controller[R, K, V]) SectionHeader(section int) (string, bool) {
	if section >= 0 && section < c.snapshot.SectionCount() {
		if h := c.snapshot.Sections[section].Header; h != nil {
			return *h, true
		}
	}
	if c.opts.Fallback != nil {
		return c.opts.Fallback.SectionHeader(section)
	}
	return "", false
}

// SectionFooter implements DataSource: the section's own footer, else the fallback's.
func (c *Controller[R, K, V]) SectionFooter(section int) (string, bool) {
	if section >= 0 && section < c.snapshot.SectionCount() {
		if f := c.snapshot.Sections[section].Footer; f != nil {
			return *f, true
		}
	}
	if c.opts.Fallback != nil {
		return c.opts.Fallback.SectionFooter(section)
	}
	return "", false
}

// Query implements Querier by forwarding q to the fallback, if it implements Querier.
func (c *Controller[R, K, V]) Query(q any) (any, bool) {
	if qr, ok := c.opts.Fallback.(Querier); ok {
		return qr.Query(q)
	}
	return nil, false
}
