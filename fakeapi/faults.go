package fakeapi

// Faults is the table of sentinel values that force canned failure responses.
type Faults struct {
	// NotFound ids answer 404 on every /widgets/{id} route.
	NotFound IDSet

	// ServerError ids answer 500 on every /widgets/{id} route.
	ServerError IDSet

	// InvalidFieldType rejects a POST whose first widget.fieldTypes entry has
	// this type, answering with InvalidFieldTypeDetail.
	InvalidFieldType       string
	InvalidFieldTypeDetail ErrorDetail

	// CreateRejections are ids refused with 422 when a PUT would create them.
	CreateRejections map[string]ErrorDetail

	// UpdateFailures are ids that answer 500 when a PUT hits an existing widget.
	UpdateFailures IDSet

	// DeleteFailures are ids that always answer 500 on DELETE.
	DeleteFailures IDSet

	// ListFailures are spaces whose listing answers 500.
	ListFailures IDSet
}

type IDSet map[string]struct{}

func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// DefaultFaults returns the sentinels client library tests rely on.
func DefaultFaults() Faults {
	return Faults{
		NotFound:         NewIDSet("not-found"),
		ServerError:      NewIDSet("fail"),
		InvalidFieldType: "Lol",
		InvalidFieldTypeDetail: ErrorDetail{
			Path:     []string{"widget", "fieldTypes"},
			Expected: []string{"Symbol", "Yolo"},
		},
		CreateRejections: map[string]ErrorDetail{
			"too-long-name": {Path: []string{"widget", "name"}},
			"so-invalid":    {},
			"too-big":       {Path: []string{"widget", "srcdoc"}, Max: 7777},
		},
		UpdateFailures: NewIDSet("fail-update"),
		DeleteFailures: NewIDSet("fail-delete"),
		ListFailures:   NewIDSet("fail"),
	}
}

func (f Faults) rejectCreate(id string) (ErrorDetail, bool) {
	d, ok := f.CreateRejections[id]
	return d, ok
}

func (f Faults) rejectFieldType(t string) bool {
	return f.InvalidFieldType != "" && t == f.InvalidFieldType
}
