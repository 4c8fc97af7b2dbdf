package paper

import "fmt"

// FieldUpdate is a single proposed assignment to a draft field.
type FieldUpdate struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// Patch is an ordered set of field updates proposed by a scraper.
type Patch []FieldUpdate

// Set appends an update for field.
func (p *Patch) Set(field string, value any) {
	*p = append(*p, FieldUpdate{Field: field, Value: value})
}

// Fields returns the names of the fields the patch touches, in order.
func (p Patch) Fields() []string {
	fields := make([]string, len(p))
	for i, u := range p {
		fields[i] = u.Field
	}
	return fields
}

// Apply writes every update into d through SetValue. Either all updates are
// applied or, on the first failing update, none are.
func (p Patch) Apply(d *Draft) error {
	staged := d.Clone()
	for _, u := range p {
		if err := staged.SetValue(u.Field, u.Value); err != nil {
			return fmt.Errorf("applying %s: %w", u.Field, err)
		}
	}
	*d = *staged
	return nil
}
