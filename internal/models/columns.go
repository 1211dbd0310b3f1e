package models

// Column binds a store column to a struct field. Dest is the scan target,
// Value the bind argument, and Set reports whether a partial update carries it.
type Column struct {
	Dest  interface{}
	Value interface{}
	Name  string
	Set   bool
}

// opt maps a nullable column to a pointer field.
func opt[T any](name string, field **T) Column {
	return Column{Name: name, Dest: field, Value: *field, Set: *field != nil}
}

// req maps a NOT NULL column to a value field. It is always written.
func req[T any](name string, field *T) Column {
	return Column{Name: name, Dest: field, Value: *field, Set: true}
}

// ColumnNames returns the names of cols in order.
func ColumnNames(cols []Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

// ScanDest returns the scan targets of cols in order.
func ScanDest(cols []Column) []interface{} {
	dest := make([]interface{}, len(cols))
	for i, c := range cols {
		dest[i] = c.Dest
	}
	return dest
}

// SetColumns filters cols down to the ones a partial update carries.
func SetColumns(cols []Column) []Column {
	out := make([]Column, 0, len(cols))
	for _, c := range cols {
		if c.Set {
			out = append(out, c)
		}
	}
	return out
}
