package ward

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"ward-calendar-api/internal/util"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

const (
	msgRequired      = "This field is required."
	msgNull          = "This field may not be null."
	msgBlank         = "This field may not be blank."
	msgInvalidString = "Not a valid string."
	msgInvalidInt    = "A valid integer is required."
	msgInvalidBool   = "Must be a valid boolean."
	msgInvalidDate   = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."

	NonFieldErrors = "non_field_errors"
)

// ValidationError maps a field name to its messages. It is returned by the
// services and rendered as the 400 response body.
type ValidationError map[string][]string

func (e ValidationError) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e ValidationError) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e ValidationError) Has(field string) bool {
	return len(e[field]) > 0
}

func (e ValidationError) Empty() bool {
	return len(e) == 0
}

// Mode selects which fields must be present in a write payload.
type Mode int

const (
	ModeCreate Mode = iota
	ModeReplace
	ModePartial
)

type WardInput struct {
	ID             *string         `json:"id" validate:"omitempty,notblank,max=50"`
	WardName       *string         `json:"ward_name" validate:"omitempty,notblank,max=255"`
	MeetingDay     *string         `json:"meeting_day" validate:"omitempty,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	MeetingTime    *string         `json:"meeting_time" validate:"omitempty,notblank,max=20"`
	Venue          *string         `json:"venue" validate:"omitempty,notblank,max=255"`
	FrequencyWeeks *int            `json:"frequency_weeks" validate:"omitempty,min=-2147483648,max=2147483647"`
	StartDate      *datatypes.Date `json:"start_date"`

	// WardAdminSet distinguishes an explicit null from an absent key.
	WardAdmin    *int `json:"ward_admin"`
	WardAdminSet bool `json:"-"`
}

type MeetingInput struct {
	WardID      *string         `json:"ward" validate:"omitempty,notblank,max=50"`
	MeetingDate *datatypes.Date `json:"meeting_date"`
	MeetingTime *string         `json:"meeting_time" validate:"omitempty,notblank,max=20"`
	Venue       *string         `json:"venue" validate:"omitempty,notblank,max=255"`
	IsCancelled *bool           `json:"is_cancelled"`

	Agenda    *string `json:"agenda"`
	AgendaSet bool    `json:"-"`
	Notes     *string `json:"notes"`
	NotesSet  bool    `json:"-"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func fieldValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return validate
}

// DecodeWardInput parses a write payload. Read-only and unknown keys are
// ignored; the id key is only read in ModeCreate.
func DecodeWardInput(body []byte, mode Mode) (*WardInput, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	verr := ValidationError{}
	in := &WardInput{}
	required := mode != ModePartial

	if mode == ModeCreate {
		in.ID = stringField(fields, "id", true, verr)
	}
	in.WardName = stringField(fields, "ward_name", required, verr)
	in.MeetingDay = choiceField(fields, "meeting_day", required, verr)
	in.MeetingTime = stringField(fields, "meeting_time", required, verr)
	in.Venue = stringField(fields, "venue", required, verr)
	in.FrequencyWeeks = intField(fields, "frequency_weeks", verr)
	in.StartDate = dateField(fields, "start_date", required, verr)
	in.WardAdmin, in.WardAdminSet = pkField(fields, "ward_admin", verr)

	runValidator(in, verr)

	if !verr.Empty() {
		return nil, verr
	}
	return in, nil
}

func DecodeMeetingInput(body []byte, mode Mode) (*MeetingInput, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	verr := ValidationError{}
	in := &MeetingInput{}
	required := mode != ModePartial

	in.WardID = pkStringField(fields, "ward", required, verr)
	in.MeetingDate = dateField(fields, "meeting_date", required, verr)
	in.MeetingTime = stringField(fields, "meeting_time", required, verr)
	in.Venue = stringField(fields, "venue", required, verr)
	in.IsCancelled = boolField(fields, "is_cancelled", verr)
	in.Agenda, in.AgendaSet = nullableTextField(fields, "agenda", verr)
	in.Notes, in.NotesSet = nullableTextField(fields, "notes", verr)

	runValidator(in, verr)

	if !verr.Empty() {
		return nil, verr
	}
	return in, nil
}

// ParseError reports a body that is not valid JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "JSON parse error - " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return map[string]json.RawMessage{}, nil
	}

	var probe interface{}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&probe); err != nil {
		return nil, &ParseError{Err: err}
	}

	if _, ok := probe.(map[string]interface{}); !ok {
		return nil, ValidationError{
			NonFieldErrors: {fmt.Sprintf("Invalid data. Expected a dictionary, but got %s.", jsonTypeName(probe))},
		}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, &ParseError{Err: err}
	}
	return fields, nil
}

func jsonTypeName(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "NoneType"
	case bool:
		return "bool"
	case string:
		return "str"
	case []interface{}:
		return "list"
	case json.Number:
		if _, err := x.Int64(); err == nil {
			return "int"
		}
		return "float"
	default:
		return "dict"
	}
}

type rawKind int

const (
	kindNull rawKind = iota
	kindString
	kindNumber
	kindBool
	kindArray
	kindObject
)

func kindOf(raw json.RawMessage) rawKind {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return kindNull
	}
	switch raw[0] {
	case 'n':
		return kindNull
	case '"':
		return kindString
	case 't', 'f':
		return kindBool
	case '[':
		return kindArray
	case '{':
		return kindObject
	default:
		return kindNumber
	}
}

func kindName(k rawKind, raw json.RawMessage) string {
	switch k {
	case kindString:
		return "str"
	case kindBool:
		return "bool"
	case kindArray:
		return "list"
	case kindObject:
		return "dict"
	case kindNumber:
		if _, err := strconv.ParseInt(string(bytes.TrimSpace(raw)), 10, 64); err == nil {
			return "int"
		}
		return "float"
	default:
		return "NoneType"
	}
}

// scalarText returns the trimmed text of a string or number value.
func scalarText(raw json.RawMessage) (string, bool) {
	switch kindOf(raw) {
	case kindString:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return strings.TrimSpace(s), true
	case kindNumber:
		return string(bytes.TrimSpace(raw)), true
	default:
		return "", false
	}
}

func lookup(fields map[string]json.RawMessage, name string, required bool, verr ValidationError) (json.RawMessage, bool) {
	raw, ok := fields[name]
	if !ok {
		if required {
			verr.Add(name, msgRequired)
		}
		return nil, false
	}
	if kindOf(raw) == kindNull {
		verr.Add(name, msgNull)
		return nil, false
	}
	return raw, true
}

func stringField(fields map[string]json.RawMessage, name string, required bool, verr ValidationError) *string {
	raw, ok := lookup(fields, name, required, verr)
	if !ok {
		return nil
	}
	s, ok := scalarText(raw)
	if !ok {
		verr.Add(name, msgInvalidString)
		return nil
	}
	return &s
}

func choiceField(fields map[string]json.RawMessage, name string, required bool, verr ValidationError) *string {
	raw, ok := lookup(fields, name, required, verr)
	if !ok {
		return nil
	}
	s, ok := scalarText(raw)
	if !ok {
		verr.Add(name, fmt.Sprintf("%q is not a valid choice.", string(bytes.TrimSpace(raw))))
		return nil
	}
	return &s
}

var trailingZeroDecimal = regexp.MustCompile(`\.0*\s*$`)

func intField(fields map[string]json.RawMessage, name string, verr ValidationError) *int {
	raw, ok := lookup(fields, name, false, verr)
	if !ok {
		return nil
	}
	if kindOf(raw) != kindString && kindOf(raw) != kindNumber {
		verr.Add(name, msgInvalidInt)
		return nil
	}
	text, _ := scalarText(raw)
	text = trailingZeroDecimal.ReplaceAllString(text, "")

	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(text, 64)
		if ferr != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
			verr.Add(name, msgInvalidInt)
			return nil
		}
		n = int64(f)
	}
	if n > math.MaxInt32 || n < math.MinInt32 {
		if n > 0 {
			verr.Add(name, "Ensure this value is less than or equal to 2147483647.")
		} else {
			verr.Add(name, "Ensure this value is greater than or equal to -2147483648.")
		}
		return nil
	}
	v := int(n)
	return &v
}

func dateField(fields map[string]json.RawMessage, name string, required bool, verr ValidationError) *datatypes.Date {
	raw, ok := lookup(fields, name, required, verr)
	if !ok {
		return nil
	}
	if kindOf(raw) != kindString {
		verr.Add(name, msgInvalidDate)
		return nil
	}
	s, _ := scalarText(raw)
	d, err := parseCalendarDate(s)
	if err != nil {
		verr.Add(name, msgInvalidDate)
		return nil
	}
	return &d
}

// parseCalendarDate accepts YYYY-MM-DD with optional single-digit month and
// day. Timestamps are rejected.
func parseCalendarDate(s string) (datatypes.Date, error) {
	for _, layout := range []string{util.DateLayout, "2006-1-2"} {
		if t, err := time.Parse(layout, s); err == nil {
			return datatypes.Date(t.UTC()), nil
		}
	}
	return datatypes.Date{}, util.ErrInvalidDate
}

func boolField(fields map[string]json.RawMessage, name string, verr ValidationError) *bool {
	raw, ok := lookup(fields, name, false, verr)
	if !ok {
		return nil
	}

	var text string
	switch kindOf(raw) {
	case kindBool:
		text = string(bytes.TrimSpace(raw))
	case kindString, kindNumber:
		text, _ = scalarText(raw)
	default:
		verr.Add(name, msgInvalidBool)
		return nil
	}

	switch strings.ToLower(text) {
	case "true", "t", "yes", "y", "on", "1":
		v := true
		return &v
	case "false", "f", "no", "n", "off", "0":
		v := false
		return &v
	}
	verr.Add(name, msgInvalidBool)
	return nil
}

func nullableTextField(fields map[string]json.RawMessage, name string, verr ValidationError) (*string, bool) {
	raw, ok := fields[name]
	if !ok {
		return nil, false
	}
	if kindOf(raw) == kindNull {
		return nil, true
	}
	s, ok := scalarText(raw)
	if !ok {
		verr.Add(name, msgInvalidString)
		return nil, false
	}
	return &s, true
}

// pkField reads an integer primary key reference that may be null.
func pkField(fields map[string]json.RawMessage, name string, verr ValidationError) (*int, bool) {
	raw, ok := fields[name]
	if !ok {
		return nil, false
	}
	k := kindOf(raw)
	if k == kindNull {
		return nil, true
	}
	if k != kindString && k != kindNumber {
		verr.Add(name, fmt.Sprintf("Incorrect type. Expected pk value, received %s.", kindName(k, raw)))
		return nil, false
	}
	text, _ := scalarText(raw)
	n, err := strconv.Atoi(text)
	if err != nil {
		verr.Add(name, fmt.Sprintf("Incorrect type. Expected pk value, received %s.", kindName(k, raw)))
		return nil, false
	}
	return &n, true
}

// pkStringField reads a required textual primary key reference.
func pkStringField(fields map[string]json.RawMessage, name string, required bool, verr ValidationError) *string {
	raw, ok := lookup(fields, name, required, verr)
	if !ok {
		return nil
	}
	s, ok := scalarText(raw)
	if !ok {
		verr.Add(name, fmt.Sprintf("Incorrect type. Expected pk value, received %s.", kindName(kindOf(raw), raw)))
		return nil
	}
	return &s
}

// runValidator applies the struct tags and records the first failure per
// field, skipping fields that already failed to decode.
func runValidator(in interface{}, verr ValidationError) {
	err := fieldValidator().Struct(in)
	if err == nil {
		return
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		verr.Add(NonFieldErrors, err.Error())
		return
	}
	for _, fe := range errs {
		if verr.Has(fe.Field()) {
			continue
		}
		verr.Add(fe.Field(), translate(fe))
	}
}

func translate(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank":
		return msgBlank
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(fe.Value()))
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	default:
		return fmt.Sprintf("Invalid value for %s.", fe.Field())
	}
}
