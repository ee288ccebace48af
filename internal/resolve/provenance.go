package resolve

import "github.com/shelfport/shelfport/internal/domain"

// SummaryProvenance decides whether the exported summary text should be
// entered or left for the destination to regenerate. The supplementary
// autogenerated flag is authoritative; without it the run-wide policy
// applies.
func SummaryProvenance(policy FillPolicy) Step {
	return provenance(domain.AttrSummary, domain.AttrSummaryAuto, policy)
}

// PhysicalProvenance is the same decision for the physical description.
func PhysicalProvenance(policy FillPolicy) Step {
	return provenance(domain.AttrPhysicalDesc, domain.AttrPhysicalAuto, policy)
}

func provenance(attr, flagAttr domain.Attr, policy FillPolicy) Step {
	return func(rec *domain.BookRecord) *domain.BookRecord {
		f := rec.Get(attr)
		if f.Confidence == domain.ConfidenceAbsent {
			return rec
		}
		cp := rec.Clone()
		flag := rec.Get(flagAttr)
		switch {
		case flag.Confidence != domain.ConfidenceAbsent:
			if auto, _ := flag.Value.(bool); auto {
				// Destination generated the text; leaving the field blank
				// makes it regenerate rather than freeze a stale copy.
				cp.Set(attr, domain.Absent())
			} else {
				cp.Set(attr, domain.Confirmed(f.Value, f.Origin))
			}
		case policy == FillBlank:
			cp.Set(attr, domain.Absent())
		default:
			// FillAlways: keep the exported text as-is.
			cp.Set(attr, f)
		}
		return cp
	}
}
