package caserecord

import "sort"

// Timeline titles per entry type.
const (
	titleNotification = "Lastensuojeluilmoitus"
	titleCaseNote     = "Asiakaskirjaus"
	titleDecision     = "Päätös"
	titlePTARecord    = "Palveluntarvearviointi"
	titleServicePlan  = "Asiakassuunnitelma"
)

// Build merges the five per-category lists into one CaseRecord. Pure function:
// no store or network access, recomputed on every call, so the timeline is
// always consistent with its inputs. All-empty inputs produce a valid
// all-empty record.
//
// The timeline is the union of the inputs sorted by date ascending. Ties keep
// source-category declaration order (notifications, case notes, decisions,
// assessment records, service plans) and then insertion order — the sort is
// stable across repeated calls with the same input order. Duplicate entries
// for the same related id are kept as-is.
func Build(
	notifications []Notification,
	caseNotes []CaseNote,
	decisions []Decision,
	ptaRecords []PTARecord,
	servicePlans []ServicePlan,
) CaseRecord {
	timeline := make([]TimelineEntry, 0,
		len(notifications)+len(caseNotes)+len(decisions)+len(ptaRecords)+len(servicePlans))

	for _, n := range notifications {
		timeline = append(timeline, TimelineEntry{
			ID:        string(EntryNotification) + "-" + n.ID,
			Date:      n.Date,
			Type:      EntryNotification,
			Title:     titleNotification,
			Summary:   n.Summary,
			RelatedID: n.ID,
		})
	}
	for _, c := range caseNotes {
		timeline = append(timeline, TimelineEntry{
			ID:        string(EntryCaseNote) + "-" + c.ID,
			Date:      c.Date,
			Type:      EntryCaseNote,
			Title:     titleCaseNote,
			Summary:   c.Summary,
			RelatedID: c.ID,
		})
	}
	for _, d := range decisions {
		timeline = append(timeline, TimelineEntry{
			ID:        string(EntryDecision) + "-" + d.ID,
			Date:      d.Date,
			Type:      EntryDecision,
			Title:     titleDecision,
			Summary:   d.Summary,
			RelatedID: d.ID,
		})
	}
	for _, p := range ptaRecords {
		timeline = append(timeline, TimelineEntry{
			ID:        string(EntryPTARecord) + "-" + p.ID,
			Date:      p.Date,
			Type:      EntryPTARecord,
			Title:     entryTitle(titlePTARecord, p.EventType),
			Summary:   p.Summary,
			RelatedID: p.ID,
		})
	}
	for _, s := range servicePlans {
		timeline = append(timeline, TimelineEntry{
			ID:        string(EntryServicePlan) + "-" + s.ID,
			Date:      s.Date,
			Type:      EntryServicePlan,
			Title:     entryTitle(titleServicePlan, s.PlanType),
			Summary:   s.Summary,
			RelatedID: s.ID,
		})
	}

	// Stable sort preserves the union order above for equal dates.
	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].Date < timeline[j].Date
	})

	return CaseRecord{
		Notifications: notifications,
		CaseNotes:     caseNotes,
		Decisions:     decisions,
		PTARecords:    ptaRecords,
		ServicePlans:  servicePlans,
		Timeline:      timeline,
	}
}

// entryTitle appends the subtype when known, e.g. "Palveluntarvearviointi:
// tapaaminen".
func entryTitle(base, subtype string) string {
	if subtype == "" {
		return base
	}
	return base + ": " + subtype
}
