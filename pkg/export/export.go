package export

// Column pairs a header label with the key used to pull the cell value.
type Column struct {
	Header string
	Key    string
}

// Dataset defines tabular export content.
type Dataset struct {
	Title   string
	Columns []Column
	Rows    []map[string]string
}

// Exporter renders a dataset into a file format.
type Exporter interface {
	Render(data Dataset) ([]byte, error)
	Extension() string
}
