// Package document ties the pipeline together: saving a document triggers
// summary generation and classification, and loading a case subject
// aggregates every category into one case record.
package document

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/socialwise/caseflow/caserecord"
	"github.com/socialwise/caseflow/category"
	"github.com/socialwise/caseflow/docstore"
	"github.com/socialwise/caseflow/generate"
)

// placeholderSummary is written while a backlog document's real summary is
// being generated, so list views show progress instead of a blank field.
const placeholderSummary = "Luodaan yhteenvetoa..."

// defaultAuthor is recorded when no author is supplied.
const defaultAuthor = "system"

// noNotificationsSummary is returned when a client has no notifications to
// summarize.
const noNotificationsSummary = "Ei ilmoituksia"

// Store is the document persistence interface. *docstore.Store is the
// production implementation.
type Store interface {
	Insert(ctx context.Context, doc *docstore.Document) (string, error)
	Get(ctx context.Context, cat category.Category, id string) (*docstore.Document, error)
	Put(ctx context.Context, doc *docstore.Document) error
	Delete(ctx context.Context, cat category.Category, id string) error
	ListByClient(ctx context.Context, cat category.Category, clientID string, opts docstore.ListOptions) ([]*docstore.Document, error)
}

// Summarizer is the generation pipeline interface. *generate.Generator is the
// production implementation.
type Summarizer interface {
	Summarize(ctx context.Context, docText string, cat category.Category) generate.Result
	ExtractUrgency(ctx context.Context, docText string) string
	ExtractDecisionType(ctx context.Context, docText string) string
}

// Service orchestrates document saving, summary generation and case record
// loading.
type Service struct {
	store  Store
	gen    Summarizer
	logger *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a document service.
func NewService(store Store, gen Summarizer, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		gen:    gen,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Save persists a document, generating its summary and classification
// metadata first when the document has text but no summary yet. Generation
// failures degrade into sentinel summaries and never block the save; store
// failures are returned, because losing a user-initiated write silently would
// be incorrect.
//
// A document without an ID is inserted; one with an ID is overwritten whole.
func (s *Service) Save(ctx context.Context, doc *docstore.Document) (string, error) {
	if doc.ClientID == "" {
		return "", fmt.Errorf("client id is required")
	}
	if _, err := category.Parse(string(doc.Category)); err != nil {
		return "", err
	}
	if doc.UpdatedBy == "" {
		doc.UpdatedBy = defaultAuthor
	}

	s.enrich(ctx, doc)

	if doc.ID == "" {
		return s.store.Insert(ctx, doc)
	}
	return doc.ID, s.store.Put(ctx, doc)
}

// enrich fills summary and classification metadata in place.
func (s *Service) enrich(ctx context.Context, doc *docstore.Document) {
	if doc.Category == category.CaseNote {
		// Case note summaries are author-written by policy.
		if doc.Summary == "" {
			doc.Summary = doc.ManualSummary
		}
		return
	}

	if doc.FullText != "" && doc.Summary == "" {
		res := s.gen.Summarize(ctx, doc.FullText, doc.Category)
		mergeResult(doc, res)
	}

	switch doc.Category {
	case category.Notification:
		if doc.Urgency == "" && doc.FullText != "" {
			doc.Urgency = s.gen.ExtractUrgency(ctx, doc.FullText)
		}
	case category.Decision:
		if doc.DecisionType == "" && doc.FullText != "" {
			doc.DecisionType = s.gen.ExtractDecisionType(ctx, doc.FullText)
		}
	}
}

// mergeResult merges the pipeline's structured output into the document's
// metadata fields. Structured fields win over pre-filled ones when present;
// everything is best-effort.
func mergeResult(doc *docstore.Document, res generate.Result) {
	doc.Summary = res.Summary

	if res.Outcome != generate.OutcomeStructured {
		return
	}

	setString(&doc.Date, res.StringField("date"))
	setString(&doc.ReporterSummary, res.StringField("reporterSummary"))
	setString(&doc.Reason, res.StringField("reason"))
	setString(&doc.DecisionType, res.StringField("decisionType"))
	setString(&doc.LegalBasis, res.StringField("legalBasis"))
	setString(&doc.EventType, res.StringField("eventType"))
	setString(&doc.Status, res.StringField("status"))
	setString(&doc.PlanType, res.StringField("planType"))
	setString(&doc.ValidFrom, res.StringField("validFrom"))
	setString(&doc.ValidTo, res.StringField("validTo"))

	if highlights := res.StringsField("highlights"); highlights != nil {
		doc.Highlights = highlights
	}
	if keywords := res.StringsField("keywords"); keywords != nil {
		doc.Keywords = keywords
	}
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// Get retrieves one document.
func (s *Service) Get(ctx context.Context, cat category.Category, id string) (*docstore.Document, error) {
	return s.store.Get(ctx, cat, id)
}

// List returns a client's documents in one category, newest first.
func (s *Service) List(ctx context.Context, cat category.Category, clientID string, opts docstore.ListOptions) ([]*docstore.Document, error) {
	return s.store.ListByClient(ctx, cat, clientID, opts)
}

// Delete removes a document.
func (s *Service) Delete(ctx context.Context, cat category.Category, id string) error {
	return s.store.Delete(ctx, cat, id)
}

// LoadCaseRecord loads every category for one case subject and aggregates
// them into a case record with a chronological timeline. Recomputed on every
// call; empty collections produce a valid empty record.
func (s *Service) LoadCaseRecord(ctx context.Context, clientID string) (*caserecord.CaseRecord, error) {
	var (
		notifications []caserecord.Notification
		caseNotes     []caserecord.CaseNote
		decisions     []caserecord.Decision
		ptaRecords    []caserecord.PTARecord
		servicePlans  []caserecord.ServicePlan
	)

	for _, cat := range category.All() {
		docs, err := s.store.ListByClient(ctx, cat, clientID, docstore.ListOptions{})
		if err != nil {
			return nil, fmt.Errorf("load %s documents: %w", cat, err)
		}

		switch cat {
		case category.Notification:
			for _, d := range docs {
				notifications = append(notifications, caserecord.Notification{
					ID:              d.ID,
					Date:            d.Date,
					Summary:         d.Summary,
					ReporterSummary: d.ReporterSummary,
					Reason:          d.Reason,
					Urgency:         d.Urgency,
					Highlights:      d.Highlights,
				})
			}
		case category.CaseNote:
			for _, d := range docs {
				summary := d.Summary
				if summary == "" {
					summary = d.ManualSummary
				}
				caseNotes = append(caseNotes, caserecord.CaseNote{
					ID:       d.ID,
					Date:     d.Date,
					Summary:  summary,
					Keywords: d.Keywords,
				})
			}
		case category.Decision:
			for _, d := range docs {
				decisions = append(decisions, caserecord.Decision{
					ID:           d.ID,
					Date:         d.Date,
					Summary:      d.Summary,
					DecisionType: d.DecisionType,
					LegalBasis:   d.LegalBasis,
					Highlights:   d.Highlights,
				})
			}
		case category.Assessment:
			for _, d := range docs {
				ptaRecords = append(ptaRecords, caserecord.PTARecord{
					ID:        d.ID,
					Date:      d.Date,
					Summary:   d.Summary,
					EventType: d.EventType,
					Status:    d.Status,
				})
			}
		case category.ServicePlan:
			for _, d := range docs {
				date := d.Date
				if date == "" {
					date = d.ValidFrom
				}
				servicePlans = append(servicePlans, caserecord.ServicePlan{
					ID:        d.ID,
					Date:      date,
					Summary:   d.Summary,
					PlanType:  d.PlanType,
					ValidFrom: d.ValidFrom,
					ValidTo:   d.ValidTo,
				})
			}
		}
	}

	record := caserecord.Build(notifications, caseNotes, decisions, ptaRecords, servicePlans)
	return &record, nil
}

// SummarizeLatestNotification summarizes a client's most recent notification
// from its full metadata context rather than the raw text alone, so the
// summary reflects the reporter and the stated reason. Returns
// "Ei ilmoituksia" when the client has none. Generation failures degrade to
// sentinels as in Save; only store failures are returned as errors.
func (s *Service) SummarizeLatestNotification(ctx context.Context, clientID string) (string, error) {
	docs, err := s.store.ListByClient(ctx, category.Notification, clientID, docstore.ListOptions{Limit: 1})
	if err != nil {
		return "", fmt.Errorf("list notifications: %w", err)
	}
	if len(docs) == 0 {
		return noNotificationsSummary, nil
	}

	res := s.gen.Summarize(ctx, notificationContext(docs[0]), category.Notification)

	s.logger.Debug("Latest notification summarized",
		"client_id", clientID,
		"document_id", docs[0].ID,
		"outcome", res.Outcome)
	return res.Summary, nil
}

// notificationContext renders a notification's metadata and text into the
// markdown context document the summary is generated from.
func notificationContext(doc *docstore.Document) string {
	var b strings.Builder
	b.WriteString("# Lastensuojeluhakemus\n\n")
	fmt.Fprintf(&b, "**Päivämäärä:** %s\n\n", doc.Date)
	fmt.Fprintf(&b, "**Ilmoittaja:** %s\n\n", doc.ReporterSummary)
	fmt.Fprintf(&b, "**Ilmoituksen syy:**\n%s\n\n", doc.Reason)
	if len(doc.Highlights) > 0 {
		b.WriteString("**Korostukset:**\n")
		for _, h := range doc.Highlights {
			fmt.Fprintf(&b, "- %s\n", h)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "**Täydellinen teksti:**\n%s", doc.FullText)
	return strings.TrimSpace(b.String())
}

// SummarizeBacklog regenerates summaries for a client's documents that have
// text but no summary yet, at most parallelism documents at a time. Each
// document first gets a placeholder summary so list views show progress, then
// the real one. Individual generation failures degrade to sentinels as usual;
// only store failures abort the batch.
func (s *Service) SummarizeBacklog(ctx context.Context, cat category.Category, clientID string, parallelism int) error {
	if parallelism < 1 {
		parallelism = 1
	}
	if !category.PolicyFor(cat).GenerateSummary {
		return nil
	}

	docs, err := s.store.ListByClient(ctx, cat, clientID, docstore.ListOptions{})
	if err != nil {
		return fmt.Errorf("list backlog: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for _, doc := range docs {
		if doc.FullText == "" || doc.Summary != "" {
			continue
		}

		g.Go(func() error {
			doc.Summary = placeholderSummary
			if err := s.store.Put(ctx, doc); err != nil {
				return fmt.Errorf("store placeholder for %s: %w", doc.ID, err)
			}

			res := s.gen.Summarize(ctx, doc.FullText, doc.Category)
			mergeResult(doc, res)

			if err := s.store.Put(ctx, doc); err != nil {
				return fmt.Errorf("store summary for %s: %w", doc.ID, err)
			}

			s.logger.Debug("Backlog document summarized",
				"category", doc.Category,
				"document_id", doc.ID,
				"outcome", res.Outcome)
			return nil
		})
	}

	return g.Wait()
}
