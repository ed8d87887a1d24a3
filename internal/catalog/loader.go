package catalog

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/RakeemAI/Rakeem/pkg/errors"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Format is the storage encoding of a catalog.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the catalog format from a file extension, defaulting
// to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Loader reads catalogs into Records. Malformed optional fields are logged and
// dropped; only structurally broken catalogs fail.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a Loader. A nil logger disables logging.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// Load reads the catalog stored at path.
func Load(path string) ([]Record, error) {
	return NewLoader(nil).Load(path)
}

// Load reads the catalog stored at path. A missing or unreadable file yields
// CodeCatalogUnreadable; an undecodable file yields CodeCatalogFormat.
func (l *Loader) Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeCatalogUnreadable,
			fmt.Sprintf("failed to read catalog %s", path))
	}

	records, err := l.decode(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	l.logger.Debug("catalog loaded",
		zap.String("op", "catalog.Load"),
		zap.String("path", path),
		zap.Int("records", len(records)),
	)
	return records, nil
}

// Decode reads a catalog from r in the given format.
func (l *Loader) Decode(r io.Reader, format Format) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeCatalogUnreadable, "failed to read catalog")
	}
	return l.decode(data, format)
}

func (l *Loader) decode(data []byte, format Format) ([]Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []Record{}, nil
	}

	var raw []interface{}
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
	case FormatJSON:
		err = json.Unmarshal(data, &raw)
	default:
		return nil, errors.Newf(errors.CodeCatalogFormat, "unsupported catalog format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeCatalogFormat, "catalog must be a list of obligation records")
	}

	records := make([]Record, 0, len(raw))
	for i, item := range raw {
		fields, ok := item.(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.CodeCatalogFormat,
				"record %d: expected an object, got %T", i, item)
		}
		records = append(records, l.recordFromFields(i, fields))
	}
	return records, nil
}

func (l *Loader) recordFromFields(index int, fields map[string]interface{}) Record {
	var rec Record
	for _, f := range l.resolveFields(index, fields) {
		switch f.field {
		case "id":
			rec.ID = stringValue(f.value)
		case "name":
			rec.Name = stringValue(f.value)
		case "authority":
			rec.Authority = stringValue(f.value)
		case "category":
			rec.Category = stringValue(f.value)
		case "frequency":
			rec.Frequency = NormalizeFrequency(stringValue(f.value))
		case "description":
			rec.Description = stringValue(f.value)
		case "approx_month":
			rec.ApproxMonth = l.intValue(index, f.key, f.value, maxApproxMonth)
		case "approx_day":
			rec.ApproxDay = l.intValue(index, f.key, f.value, maxApproxDay)
		}
	}
	return rec
}

type fieldValue struct {
	field string
	key   string
	value interface{}
}

// resolveFields maps the keys of a stored record onto canonical fields. When
// several keys alias the same field the canonical English key wins, then the
// lexically smallest key, so decoding never depends on map order.
func (l *Loader) resolveFields(index int, fields map[string]interface{}) []fieldValue {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	chosen := make(map[string]fieldValue, len(keys))
	order := make([]string, 0, len(keys))
	for _, key := range keys {
		field, ok := canonicalField(key)
		if !ok {
			continue
		}
		current, seen := chosen[field]
		if !seen {
			chosen[field] = fieldValue{field: field, key: key, value: fields[key]}
			order = append(order, field)
			continue
		}
		if isCanonicalKey(key, field) && !isCanonicalKey(current.key, field) {
			l.warnDuplicate(index, field, current.key, key)
			chosen[field] = fieldValue{field: field, key: key, value: fields[key]}
			continue
		}
		l.warnDuplicate(index, field, key, current.key)
	}

	resolved := make([]fieldValue, 0, len(order))
	for _, field := range order {
		resolved = append(resolved, chosen[field])
	}
	return resolved
}

func isCanonicalKey(key, field string) bool {
	return strings.ToLower(normalizeText(key)) == field
}

func (l *Loader) warnDuplicate(index int, field, ignored, kept string) {
	l.logger.Warn("ignoring duplicate catalog field",
		zap.String("op", "catalog.Decode"),
		zap.Int("record", index),
		zap.String("field", field),
		zap.String("ignored", ignored),
		zap.String("kept", kept),
	)
}

func stringValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return normalizeText(v)
	default:
		return normalizeText(fmt.Sprint(v))
	}
}

// Upper bounds of the approximate calendar fields.
const (
	maxApproxMonth = 12
	maxApproxDay   = 31
)

// intValue accepts integral numbers and numeric strings in 1..upper. Anything
// else is treated as absent, and so is zero, which stored catalogs use for
// "unset".
func (l *Loader) intValue(index int, key string, value interface{}, upper int) *int {
	var n int64
	switch v := value.(type) {
	case nil:
		return nil
	case int:
		n = int64(v)
	case int64:
		n = v
	case uint64:
		if v > math.MaxInt64 {
			l.warnField(index, key, value)
			return nil
		}
		n = int64(v)
	case float64:
		if v != math.Trunc(v) || v < -float64(upper) || v > float64(upper) {
			l.warnField(index, key, value)
			return nil
		}
		n = int64(v)
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil
		}
		parsed, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			l.warnField(index, key, value)
			return nil
		}
		n = parsed
	default:
		l.warnField(index, key, value)
		return nil
	}
	if n == 0 {
		return nil
	}
	if n < 1 || n > int64(upper) {
		l.warnField(index, key, value)
		return nil
	}
	result := int(n)
	return &result
}

func (l *Loader) warnField(index int, key string, value interface{}) {
	l.logger.Warn("ignoring malformed catalog field",
		zap.String("op", "catalog.Decode"),
		zap.Int("record", index),
		zap.String("field", key),
		zap.Any("value", value),
	)
}
