package table

const (
	ShapeArray   = "array"
	ShapeObjects = "objects"
)

type transformFunc func(columns []string, values Row) any

var transformFuncs = map[string]transformFunc{
	ShapeArray:   transformArray,
	ShapeObjects: transformObject,
}

// Shape renders the rows either as arrays or as column→value objects.
// Unknown shapes fall back to objects.
func (s *Snapshot) Shape(shape string) []any {
	transform, ok := transformFuncs[shape]
	if !ok {
		transform = transformObject
	}
	out := make([]any, 0, len(s.Rows))
	for _, r := range s.Rows {
		out = append(out, transform(s.Columns, r))
	}
	return out
}

// Objects returns every row as a column→value map.
func (s *Snapshot) Objects() []map[string]any {
	out := make([]map[string]any, 0, len(s.Rows))
	for _, r := range s.Rows {
		out = append(out, transformObject(s.Columns, r).(map[string]any))
	}
	return out
}

func transformArray(columns []string, values Row) any {
	arrRow := make([]any, len(columns))
	for i := range columns {
		arrRow[i] = values[i]
	}
	return arrRow
}

func transformObject(columns []string, values Row) any {
	objRow := make(map[string]any, len(columns))
	for i, col := range columns {
		objRow[col] = values[i]
	}
	return objRow
}
