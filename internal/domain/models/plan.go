package models

import "time"

type PlanState string

const (
	// PlanMissing means no plan row exists for the source. Learning cannot
	// start from here: the career URL is only known once a row is seeded.
	PlanMissing PlanState = "missing"
	// PlanUnlearned means a row exists but its selectors are not trusted;
	// only the career URL is usable, for the next learning attempt.
	PlanUnlearned PlanState = "unlearned"
	PlanLearned   PlanState = "learned"
)

// PlanSelectors is the CSS locator set produced by the oracle. All selectors
// except Container are resolved relative to a container node. An empty string
// means the oracle found no locator for that field.
type PlanSelectors struct {
	Container string
	Title     string
	Location  string
	Link      string
}

// ExtractionPlan is the learned extraction recipe for one source's career
// page. The learned flag is never toggled ad hoc: plans are replaced
// wholesale on successful learning and demoted through Plans.MarkUnlearned
// on extraction failure.
type ExtractionPlan struct {
	Source            string `gorm:"primaryKey"`
	SourceURL         string
	ContainerSelector string
	TitleSelector     string
	LocationSelector  string
	LinkSelector      string
	Learned           bool
	UpdatedAt         time.Time
}

func NewLearnedPlan(source, sourceURL string, selectors PlanSelectors) ExtractionPlan {
	return ExtractionPlan{
		Source:            source,
		SourceURL:         sourceURL,
		ContainerSelector: selectors.Container,
		TitleSelector:     selectors.Title,
		LocationSelector:  selectors.Location,
		LinkSelector:      selectors.Link,
		Learned:           true,
		UpdatedAt:         time.Now().UTC(),
	}
}

// StateOf derives the lifecycle state of a plan lookup result. A nil plan is
// the missing state.
func StateOf(plan *ExtractionPlan) PlanState {
	if plan == nil {
		return PlanMissing
	}
	if plan.Learned {
		return PlanLearned
	}
	return PlanUnlearned
}

func (p *ExtractionPlan) Selectors() PlanSelectors {
	return PlanSelectors{
		Container: p.ContainerSelector,
		Title:     p.TitleSelector,
		Location:  p.LocationSelector,
		Link:      p.LinkSelector,
	}
}
