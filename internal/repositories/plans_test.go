package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/careerscout/careerscout/internal/domain/models"
)

func newTestDb(t *testing.T) *DbContext {

	dbContext, err := NewDbContext(":memory:")
	assert.NoError(t, err)

	err = dbContext.Migrate()
	assert.NoError(t, err)

	t.Cleanup(func() { _ = dbContext.Close() })
	return dbContext
}

func Test_PlansGet_WhenMissing_ShouldReturnNil(t *testing.T) {

	repo := NewPlansRepository(newTestDb(t).DB)

	plan, err := repo.Get(context.Background(), "Acme")

	assert.NoError(t, err)
	assert.Nil(t, plan)
}

func Test_PlansSave_ShouldRoundTrip(t *testing.T) {

	repo := NewPlansRepository(newTestDb(t).DB)

	saved := models.NewLearnedPlan("Acme", "https://acme.example/careers", models.PlanSelectors{
		Container: ".job",
		Title:     ".title",
		Location:  ".location",
		Link:      "a",
	})
	err := repo.Save(context.Background(), saved)
	assert.NoError(t, err)

	plan, err := repo.Get(context.Background(), "Acme")

	assert.NoError(t, err)
	assert.NotNil(t, plan)
	assert.Equal(t, models.PlanLearned, models.StateOf(plan))
	assert.Equal(t, saved.Selectors(), plan.Selectors())
	assert.Equal(t, "https://acme.example/careers", plan.SourceURL)
}

func Test_PlansSave_ShouldReplaceExistingPlanWholesale(t *testing.T) {

	repo := NewPlansRepository(newTestDb(t).DB)
	ctx := context.Background()

	first := models.NewLearnedPlan("Acme", "https://acme.example/careers", models.PlanSelectors{
		Container: ".old-container", Title: ".old-title", Location: ".old-location", Link: "a.old",
	})
	assert.NoError(t, repo.Save(ctx, first))

	second := models.NewLearnedPlan("Acme", "https://acme.example/jobs", models.PlanSelectors{
		Container: ".job", Title: ".title",
	})
	assert.NoError(t, repo.Save(ctx, second))

	plan, err := repo.Get(ctx, "Acme")

	assert.NoError(t, err)
	assert.Equal(t, "https://acme.example/jobs", plan.SourceURL)
	assert.Equal(t, second.Selectors(), plan.Selectors())
	assert.NotContains(t, plan.ContainerSelector, "old")
	assert.Equal(t, "", plan.LocationSelector)
}

func Test_PlansMarkUnlearned_ShouldKeepURLAndLocators(t *testing.T) {

	repo := NewPlansRepository(newTestDb(t).DB)
	ctx := context.Background()

	saved := models.NewLearnedPlan("Acme", "https://acme.example/careers", models.PlanSelectors{
		Container: ".job", Title: ".title", Location: ".location", Link: "a",
	})
	assert.NoError(t, repo.Save(ctx, saved))

	assert.NoError(t, repo.MarkUnlearned(ctx, "Acme"))

	plan, err := repo.Get(ctx, "Acme")

	assert.NoError(t, err)
	assert.Equal(t, models.PlanUnlearned, models.StateOf(plan))
	assert.Equal(t, "https://acme.example/careers", plan.SourceURL)
	assert.Equal(t, saved.Selectors(), plan.Selectors())
}

func Test_PlansMarkUnlearned_MissingSource_ShouldNotFail(t *testing.T) {

	repo := NewPlansRepository(newTestDb(t).DB)

	err := repo.MarkUnlearned(context.Background(), "Nonexistent")

	assert.NoError(t, err)
}
