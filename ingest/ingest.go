package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/TFMV/colexgraph/models"
)

// documentNamespace scopes the content derived ids of graph documents.
var documentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("colexgraph/document"))

// GraphProcessor decodes the graph document.
type GraphProcessor struct{}

// GetName returns the name of the processor
func (p *GraphProcessor) GetName() string {
	return "Graph Processor"
}

// ProcessData decodes a graph document. The document id is derived from
// the content so the same file always gets the same id.
func (p *GraphProcessor) ProcessData(data []byte) (*models.Document, error) {
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedDocument, err)
	}
	for _, key := range []string{"nodes", "adjacency"} {
		raw, ok := sections[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return nil, fmt.Errorf("%w: missing %q", models.ErrMalformedDocument, key)
		}
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedDocument, err)
	}
	doc.ID = uuid.NewSHA1(documentNamespace, data).String()
	return &doc, nil
}

// WordProcessor decodes the word table: {wordId: [form, gloss]}.
type WordProcessor struct{}

// GetName returns the name of the processor
func (p *WordProcessor) GetName() string {
	return "Word Processor"
}

// ProcessData adds every word of the table to lookups.
func (p *WordProcessor) ProcessData(data []byte, lookups *models.Lookups) error {
	var words map[models.Key]models.WordEntry
	if err := json.Unmarshal(data, &words); err != nil {
		return fmt.Errorf("error parsing word table: %w", err)
	}
	for k, w := range words {
		lookups.Words[k] = w
	}
	return nil
}

// LanguageProcessor decodes language tables. It accepts a GeoJSON feature
// collection of language points, a JSON object of positional tuples
// {key: [name, variety, glottocode, source, family, lon, lat]} or a CSV file
// with a key column followed by the tuple columns.
type LanguageProcessor struct{}

// GetName returns the name of the processor
func (p *LanguageProcessor) GetName() string {
	return "Language Processor"
}

// ProcessData adds every language of data to lookups, keeping document
// order. The format is detected from the first byte.
func (p *LanguageProcessor) ProcessData(data []byte, lookups *models.Lookups) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] != '{' {
		return p.processCSV(trimmed, lookups)
	}

	var probe struct {
		Type     string          `json:"type"`
		Features json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(trimmed, &probe); err == nil && probe.Type == "FeatureCollection" {
		return p.processGeoJSON(trimmed, lookups)
	}
	return p.processTuples(trimmed, lookups)
}

// coordinate decodes a longitude or latitude written as a number, a
// numeric string or null.
type coordinate struct {
	value float64
	set   bool
}

func (c *coordinate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			return nil
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("invalid coordinate %s", data)
	}
	c.value, c.set = v, true
	return nil
}

type feature struct {
	Properties struct {
		Key        models.Key `json:"key"`
		Name       string     `json:"name"`
		Variety    string     `json:"variety"`
		Glottocode string     `json:"glottocode"`
		Source     string     `json:"source"`
		Family     string     `json:"family"`
		Lon        coordinate `json:"lon"`
		Lat        coordinate `json:"lat"`
	} `json:"properties"`
	Geometry *struct {
		Type        string    `json:"type"`
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
}

func (p *LanguageProcessor) processGeoJSON(data []byte, lookups *models.Lookups) error {
	var fc struct {
		Features []feature `json:"features"`
	}
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("error parsing language features: %w", err)
	}
	for i, f := range fc.Features {
		props := f.Properties
		if props.Key == "" {
			return fmt.Errorf("language feature %d has no key", i)
		}
		lon, lat := props.Lon, props.Lat
		if g := f.Geometry; g != nil && g.Type == "Point" && len(g.Coordinates) >= 2 {
			if !lon.set {
				lon = coordinate{g.Coordinates[0], true}
			}
			if !lat.set {
				lat = coordinate{g.Coordinates[1], true}
			}
		}
		lookups.AddLanguage(models.Language{
			Key:        string(props.Key),
			Name:       props.Name,
			Variety:    props.Variety,
			Glottocode: props.Glottocode,
			Source:     props.Source,
			Family:     props.Family,
			Lon:        lon.value,
			Lat:        lat.value,
		})
	}
	return nil
}

func (p *LanguageProcessor) processTuples(data []byte, lookups *models.Lookups) error {
	// Decode key by key so document order survives.
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("error parsing language table: %w", err)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("error parsing language table: %w", err)
		}
		key, _ := tok.(string)

		var fields []json.RawMessage
		if err := dec.Decode(&fields); err != nil {
			return fmt.Errorf("error parsing language %q: %w", key, err)
		}
		text := make([]string, len(fields))
		for i, f := range fields {
			var c coordinate
			if i >= 5 && c.UnmarshalJSON(f) == nil {
				text[i] = strconv.FormatFloat(c.value, 'f', -1, 64)
				continue
			}
			if err := json.Unmarshal(f, &text[i]); err != nil {
				text[i] = strings.Trim(string(f), `"`)
			}
		}
		lang, err := ParseLanguageTuple(key, text)
		if err != nil {
			return err
		}
		lookups.AddLanguage(lang)
	}
	return nil
}

func (p *LanguageProcessor) processCSV(data []byte, lookups *models.Lookups) error {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("error reading CSV header: %w", err)
	}
	// A header row starts with the literal column name.
	if !strings.EqualFold(header[0], "key") {
		lang, err := ParseLanguageTuple(header[0], header[1:])
		if err != nil {
			return err
		}
		lookups.AddLanguage(lang)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("error reading CSV record: %w", err)
		}
		if len(record) == 0 || record[0] == "" {
			continue
		}
		lang, err := ParseLanguageTuple(record[0], record[1:])
		if err != nil {
			return err
		}
		lookups.AddLanguage(lang)
	}
	return nil
}

// ParseLanguageTuple builds a language from its positional fields
// [name, variety, glottocode, source, family, lon, lat].
func ParseLanguageTuple(key string, fields []string) (models.Language, error) {
	if len(fields) != 7 {
		return models.Language{}, fmt.Errorf("language %q: expected 7 fields, got %d", key, len(fields))
	}
	lon, err := parseCoordinate(fields[5])
	if err != nil {
		return models.Language{}, fmt.Errorf("language %q: longitude: %w", key, err)
	}
	lat, err := parseCoordinate(fields[6])
	if err != nil {
		return models.Language{}, fmt.Errorf("language %q: latitude: %w", key, err)
	}
	return models.Language{
		Key:        key,
		Name:       fields[0],
		Variety:    fields[1],
		Glottocode: fields[2],
		Source:     fields[3],
		Family:     fields[4],
		Lon:        lon,
		Lat:        lat,
	}, nil
}

func parseCoordinate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// Paths names the input files of a dataset. Words and Languages are
// optional.
type Paths struct {
	Graph     string
	Words     string
	Languages string
}

// Dataset is a loaded graph with its lookup tables.
type Dataset struct {
	ID       string
	Document *models.Document
	Model    *models.Model
	Lookups  *models.Lookups
}

// Load reads, decodes and builds a dataset. Only an unreadable or
// malformed graph document is fatal; build warnings are logged.
func Load(paths Paths, log *slog.Logger) (*Dataset, error) {
	if log == nil {
		log = slog.Default()
	}
	if paths.Graph == "" {
		return nil, errors.New("no graph document given")
	}

	data, err := os.ReadFile(paths.Graph)
	if err != nil {
		return nil, fmt.Errorf("reading graph document: %w", err)
	}
	doc, err := (&GraphProcessor{}).ProcessData(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", paths.Graph, err)
	}

	lookups := models.NewLookups()
	if paths.Words != "" {
		data, err := os.ReadFile(paths.Words)
		if err != nil {
			return nil, fmt.Errorf("reading word table: %w", err)
		}
		if err := (&WordProcessor{}).ProcessData(data, lookups); err != nil {
			return nil, fmt.Errorf("%s: %w", paths.Words, err)
		}
	}
	if paths.Languages != "" {
		data, err := os.ReadFile(paths.Languages)
		if err != nil {
			return nil, fmt.Errorf("reading language table: %w", err)
		}
		if err := (&LanguageProcessor{}).ProcessData(data, lookups); err != nil {
			return nil, fmt.Errorf("%s: %w", paths.Languages, err)
		}
	}

	m, err := models.BuildDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", paths.Graph, err)
	}
	for _, w := range m.Warnings {
		log.Warn("graph document", "document", doc.ID, "warning", w)
	}
	log.Info("dataset loaded",
		"document", doc.ID,
		"nodes", len(m.Nodes),
		"links", len(m.Links),
		"words", len(lookups.Words),
		"languages", len(lookups.Languages))

	return &Dataset{ID: doc.ID, Document: doc, Model: m, Lookups: lookups}, nil
}
