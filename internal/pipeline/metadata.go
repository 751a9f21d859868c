package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alnah/go-pdfbook/internal/dateutil"
	"github.com/alnah/go-pdfbook/internal/pdf"
)

// ErrInvalidCreationDate indicates a creation date that is not W3C-DTF.
// It is only returned in strict mode; otherwise the date is skipped.
var ErrInvalidCreationDate = errors.New("invalid creation date")

// DefaultProducer identifies this tool in the Producer field.
const DefaultProducer = "go-pdfbook"

// BookProducerRole is the MARC relator code selecting the contributor
// written to the Creator field.
const BookProducerRole = "bkp"

// MetadataInjector defines the contract for writing document metadata into a graph.
type MetadataInjector interface {
	InjectMetadata(ctx context.Context, g *pdf.Graph, rec *MetadataRecord) error
}

// MetadataInjection writes the information dictionary and the catalog
// language from a metadata record.
type MetadataInjection struct {
	Producer    string
	StrictDates bool
	Location    *time.Location // zone for dates without one; UTC when nil
	Logger      *slog.Logger
}

// InjectMetadata sets Producer unconditionally, then each field whose
// source term is present in rec. A nil record only sets Producer.
func (m *MetadataInjection) InjectMetadata(ctx context.Context, g *pdf.Graph, rec *MetadataRecord) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	info := g.Info()
	producer := m.Producer
	if producer == "" {
		producer = DefaultProducer
	}
	info["Producer"] = pdf.TextString(producer)

	if rec == nil {
		return nil
	}

	if v, ok := firstValue(rec.Title); ok {
		info["Title"] = pdf.TextString(v)
	}
	if len(rec.Creator) > 0 {
		info["Author"] = pdf.TextString(joinValues(rec.Creator, "; "))
	}
	if v, ok := firstValue(rec.Description); ok {
		info["Subject"] = pdf.TextString(v)
	}
	if len(rec.Subject) > 0 {
		info["Keywords"] = pdf.TextString(joinValues(rec.Subject, " "))
	}
	if v, ok := bookProducer(rec.Contributor); ok {
		info["Creator"] = pdf.TextString(v)
	}

	if v, ok := firstValue(rec.Language); ok {
		catalog, _, err := g.Catalog()
		if err != nil {
			return err
		}
		catalog["Lang"] = pdf.TextString(v)
	}

	return m.injectCreationDate(info, rec)
}

func (m *MetadataInjection) injectCreationDate(info pdf.Dict, rec *MetadataRecord) error {
	source := rec.Created
	if len(source) == 0 {
		source = rec.Date
	}
	v, ok := firstValue(source)
	if !ok {
		return nil
	}

	t, err := dateutil.ParseW3CDate(v, m.Location)
	if err != nil {
		if m.StrictDates {
			return fmt.Errorf("%w: %v", ErrInvalidCreationDate, err)
		}
		m.logger().Warn("skipping creation date", "value", v, "error", err)
		return nil
	}
	info["CreationDate"] = pdf.String(pdf.FormatDate(t))
	return nil
}

func (m *MetadataInjection) logger() *slog.Logger {
	if m.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return m.Logger
}

func firstValue(terms []Term) (string, bool) {
	if len(terms) == 0 {
		return "", false
	}
	return terms[0].Value, true
}

func joinValues(terms []Term, sep string) string {
	values := make([]string, len(terms))
	for i, t := range terms {
		values[i] = t.Value
	}
	return strings.Join(values, sep)
}

// bookProducer returns the first contributor with the bkp role.
func bookProducer(contributors []Term) (string, bool) {
	for _, c := range contributors {
		if c.Qualifier("role") == BookProducerRole {
			return c.Value, true
		}
	}
	return "", false
}
