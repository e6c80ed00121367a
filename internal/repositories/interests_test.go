package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/careerscout/careerscout/internal/domain/models"
)

func Test_InterestsGetActive_ShouldSkipInactive(t *testing.T) {

	repo := NewInterestsRepository(newTestDb(t).DB)
	ctx := context.Background()

	active := models.NewInterest("active-token", []string{"Acme"}, []string{"Engineer"}, nil)
	assert.NoError(t, repo.Add(ctx, *active))

	inactive := models.NewInterest("inactive-token", []string{"Globex"}, nil, nil)
	inactive.Active = false
	assert.NoError(t, repo.Add(ctx, *inactive))

	interests, err := repo.GetActive(ctx)

	assert.NoError(t, err)
	assert.Len(t, interests, 1)
	assert.Equal(t, "active-token", interests[0].PushToken)
	assert.Equal(t, []string{"Acme"}, interests[0].CompaniesAsArray())
}

func Test_InterestsAdd_DuplicatePushToken_ShouldFail(t *testing.T) {

	repo := NewInterestsRepository(newTestDb(t).DB)
	ctx := context.Background()

	assert.NoError(t, repo.Add(ctx, *models.NewInterest("token", []string{"Acme"}, nil, nil)))

	err := repo.Add(ctx, *models.NewInterest("token", []string{"Globex"}, nil, nil))

	assert.Error(t, err)
}
