// Package mcp exposes schema inspection and record standardization as
// MCP tools over stdio, so agent frontends can normalize datasets without
// shelling out to the CLI.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"canonry/internal/dataset"
	"canonry/internal/extract"
	"canonry/internal/logging"
	"canonry/internal/record"
	"canonry/internal/registry"
)

// Server wraps the MCP SDK server around a dataset registry.
type Server struct {
	MCPServer *sdkmcp.Server
	Registry  *registry.Registry
}

// NewServer creates an MCP server with schema and standardization tools.
// A nil registry falls back to the builtin one.
func NewServer(reg *registry.Registry) *Server {
	if reg == nil {
		reg = registry.Builtin()
	}
	s := &Server{Registry: reg}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "canonry", Version: "dev"},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "inspect_schema",
		Description: "Resolve the text and label schema for a dataset from a sample record. Returns the field names extraction would use.",
	}, s.handleInspectSchema)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "standardize_records",
		Description: "Standardize a JSON array of records into canonical {text, label} examples.",
	}, s.handleStandardizeRecords)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_registry",
		Description: "List dataset identifiers with pre-validated extraction specs.",
	}, s.handleListRegistry)
}

// --- Tool input/output types ---

type inspectSchemaInput struct {
	Dataset    string `json:"dataset,omitempty" jsonschema:"dataset identifier for registry lookup"`
	RecordJSON string `json:"record_json" jsonschema:"one sample record as a JSON object"`
}

type inspectSchemaOutput struct {
	Dataset          string            `json:"dataset,omitempty"`
	Known            bool              `json:"known"`
	TextField        string            `json:"text_field,omitempty"`
	LabelField       string            `json:"label_field,omitempty"`
	LabelIsScore     bool              `json:"label_is_score,omitempty"`
	JoinConversation bool              `json:"join_conversation,omitempty"`
	MultilabelFields map[string]string `json:"multilabel_fields,omitempty"`
}

type standardizeRecordsInput struct {
	RecordsJSON string  `json:"records_json" jsonschema:"JSON array of record objects"`
	Dataset     string  `json:"dataset,omitempty" jsonschema:"dataset identifier for registry lookup"`
	Task        string  `json:"task,omitempty" jsonschema:"task type (binary, regression, multilabel); default binary"`
	ScoreField  string  `json:"score_field,omitempty" jsonschema:"field holding a continuous score when no label field is registered"`
	Threshold   float64 `json:"threshold,omitempty" jsonschema:"score-to-binary decision threshold; default 0.5"`
}

// canonicalExample is the tool-level shape of one standardized example.
// Label is declared as any because the label union marshals to whichever
// JSON value matches its kind (integer, float, string, or object); typing
// it as the union struct would make the derived output schema reject every
// non-map label.
type canonicalExample struct {
	Text  string `json:"text"`
	Label any    `json:"label,omitempty"`
}

type standardizeRecordsOutput struct {
	Examples   []canonicalExample `json:"examples"`
	Count      int                `json:"count"`
	TextField  string             `json:"text_field,omitempty"`
	LabelField string             `json:"label_field,omitempty"`
}

type listRegistryInput struct{}

type listRegistryOutput struct {
	Datasets []registryEntry `json:"datasets"`
}

type registryEntry struct {
	Name string        `json:"name"`
	Spec registry.Spec `json:"spec"`
}

// --- Tool handlers ---

func (s *Server) handleInspectSchema(ctx context.Context, _ *sdkmcp.CallToolRequest, input inspectSchemaInput) (*sdkmcp.CallToolResult, inspectSchemaOutput, error) {
	if strings.TrimSpace(input.RecordJSON) == "" {
		return nil, inspectSchemaOutput{}, fmt.Errorf("record_json is required")
	}
	sample, err := record.FromJSON([]byte(input.RecordJSON))
	if err != nil {
		return nil, inspectSchemaOutput{}, fmt.Errorf("parse record_json: %w", err)
	}

	spec := s.Registry.Lookup(input.Dataset)
	res := extract.Resolve(spec, sample)

	logging.New("mcp").Info("schema resolved",
		"dataset", input.Dataset, "text_field", res.TextField, "label_field", res.LabelField)

	return nil, inspectSchemaOutput{
		Dataset:          input.Dataset,
		Known:            s.Registry.Known(input.Dataset),
		TextField:        res.TextField,
		LabelField:       res.LabelField,
		LabelIsScore:     res.LabelIsScore,
		JoinConversation: res.JoinConversation,
		MultilabelFields: res.MultilabelFields,
	}, nil
}

func (s *Server) handleStandardizeRecords(ctx context.Context, _ *sdkmcp.CallToolRequest, input standardizeRecordsInput) (*sdkmcp.CallToolResult, standardizeRecordsOutput, error) {
	recs, err := decodeRecords(input.RecordsJSON)
	if err != nil {
		return nil, standardizeRecordsOutput{}, fmt.Errorf("parse records_json: %w", err)
	}
	if len(recs) == 0 {
		return nil, standardizeRecordsOutput{}, fmt.Errorf("records_json holds no records")
	}

	taskName := input.Task
	if taskName == "" {
		taskName = string(extract.TaskBinary)
	}
	task, err := extract.ParseTask(taskName)
	if err != nil {
		return nil, standardizeRecordsOutput{}, err
	}

	spec := s.Registry.Lookup(input.Dataset)
	threshold := input.Threshold
	if threshold == 0 && spec.Threshold > 0 {
		threshold = spec.Threshold
	}

	d := &dataset.Dataset{
		Name:   input.Dataset,
		Splits: []dataset.Split{{Name: dataset.SplitTrain, Records: recs}},
	}
	c, info, err := dataset.Standardize(ctx, d, spec, dataset.Options{
		Task:       task,
		ScoreField: input.ScoreField,
		Threshold:  threshold,
	})
	if err != nil {
		return nil, standardizeRecordsOutput{}, err
	}

	split := c.Splits[0].Examples
	examples := make([]canonicalExample, len(split))
	for i, ex := range split {
		examples[i] = canonicalExample{Text: ex.Text, Label: labelValue(ex.Label)}
	}
	return nil, standardizeRecordsOutput{
		Examples:   examples,
		Count:      len(examples),
		TextField:  info.TextField,
		LabelField: info.LabelField,
	}, nil
}

// labelValue unpacks the label union into the plain JSON value the tool
// output declares. Absent labels become nil so omitempty drops them.
func labelValue(l extract.Label) any {
	switch l.Kind() {
	case extract.LabelInt:
		i, _ := l.Int()
		return i
	case extract.LabelFloat:
		f, _ := l.Float()
		return f
	case extract.LabelString:
		s, _ := l.Str()
		return s
	case extract.LabelMap:
		m, _ := l.Map()
		return m
	default:
		return nil
	}
}

func (s *Server) handleListRegistry(ctx context.Context, _ *sdkmcp.CallToolRequest, _ listRegistryInput) (*sdkmcp.CallToolResult, listRegistryOutput, error) {
	names := s.Registry.Names()
	out := listRegistryOutput{Datasets: make([]registryEntry, 0, len(names))}
	for _, name := range names {
		out.Datasets = append(out.Datasets, registryEntry{Name: name, Spec: s.Registry.Lookup(name)})
	}
	return nil, out, nil
}

// decodeRecords parses a JSON array of objects into ordered records.
func decodeRecords(raw string) ([]*record.Record, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("expected a JSON array, got %v", tok)
	}

	var recs []*record.Record
	for dec.More() {
		rec, err := record.Decode(dec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(recs), err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
