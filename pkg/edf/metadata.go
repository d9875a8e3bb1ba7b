package edf

// Property is one key/value pair of an EDF header.
type Property struct {
	Key   string
	Value string
}

// Metadata is the ordered property list of an EDF header and the file it
// came from. Keys may repeat; lookups and updates use the first match.
type Metadata struct {
	Path       string
	Properties []Property
}

// Add appends a property, keeping any existing one with the same key.
func (md *Metadata) Add(p Property) {
	md.Properties = append(md.Properties, p)
}

// Value returns the value of the first property named key.
func (md *Metadata) Value(key string) (string, bool) {
	for _, p := range md.Properties {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Has reports whether a property named key exists.
func (md *Metadata) Has(key string) bool {
	_, ok := md.Value(key)
	return ok
}

// Update sets the value of the first property named key and reports whether
// one was found. Later duplicates are left untouched.
func (md *Metadata) Update(key, value string) bool {
	for i := range md.Properties {
		if md.Properties[i].Key == key {
			md.Properties[i].Value = value
			return true
		}
	}
	return false
}

// Set updates the first property named key or appends a new one.
func (md *Metadata) Set(key, value string) {
	if !md.Update(key, value) {
		md.Add(Property{Key: key, Value: value})
	}
}

// Len returns the number of properties.
func (md *Metadata) Len() int {
	return len(md.Properties)
}

// Clear drops all properties but keeps Path.
func (md *Metadata) Clear() {
	md.Properties = nil
}
