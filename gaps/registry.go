package gaps

import (
	"github.com/abadojack/whatlanggo"

	"ward-lab/domain"
)

// Registry accumulates gaps for one run. Insertion order is preserved
// and each id is registered at most once.
type Registry struct {
	mode   domain.ViewMode
	locale Locale
	order  []string
	byID   map[string]domain.Gap
}

func NewRegistry(mode domain.ViewMode, locale Locale) *Registry {
	return &Registry{
		mode:   mode,
		locale: locale,
		byID:   map[string]domain.Gap{},
	}
}

// DetectLocale picks the message language from the patient narrative.
// Chinese-dominant input keeps the original Chinese wording.
func DetectLocale(text string) Locale {
	if text == "" {
		return LocaleEN
	}
	info := whatlanggo.Detect(text)
	if info.Lang == whatlanggo.Cmn {
		return LocaleZH
	}
	return LocaleEN
}

// Add registers a catalog gap by id. Unknown ids are ignored rather
// than panicking; a failed lookup never aborts the run. The patient
// view mode override is applied here, at registration time.
func (r *Registry) Add(id string) {
	if _, dup := r.byID[id]; dup {
		return
	}
	e, ok := catalog[id]
	if !ok {
		return
	}

	severity := e.severity
	message := e.zh
	note := vitalNoteZH
	if r.locale == LocaleEN {
		message = e.en
		note = vitalNoteEN
	}
	if r.mode == domain.ViewModePatient && e.vital {
		severity = domain.SeverityLow
		message += note
	}

	fields := e.fields
	if fields == nil {
		fields = []string{}
	}
	r.byID[id] = domain.Gap{
		ID:              id,
		Severity:        severity,
		Message:         message,
		SuggestedFields: fields,
	}
	r.order = append(r.order, id)
}

// Has reports whether a gap id is already registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Gaps returns registered gaps in insertion order.
func (r *Registry) Gaps() []domain.Gap {
	out := make([]domain.Gap, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}
