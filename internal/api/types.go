package api

import "github.com/samcharles93/matrixio/pkg/edf"

type FormatInfo struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
	Load       bool     `json:"load"`
	Save       bool     `json:"save"`
}

type FormatsResponse struct {
	Object string       `json:"object"`
	Data   []FormatInfo `json:"data"`
}

type Property struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// InspectResponse summarises one uploaded matrix file.
type InspectResponse struct {
	ID         string     `json:"id"`
	Object     string     `json:"object"`
	CreatedAt  int64      `json:"created_at"`
	Format     string     `json:"format"`
	Rows       int        `json:"rows"`
	Cols       int        `json:"cols"`
	Channels   int        `json:"channels"`
	Type       string     `json:"type"`
	Bytes      int        `json:"bytes"`
	Properties []Property `json:"properties"`
}

type ResponseError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Param   string `json:"param,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}

func toProperties(props []edf.Property) []Property {
	out := make([]Property, 0, len(props))
	for _, p := range props {
		out = append(out, Property(p))
	}
	return out
}
