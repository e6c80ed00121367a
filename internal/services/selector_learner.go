package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"

	"github.com/careerscout/careerscout/internal/domain/models"
)

type aiClient interface {
	GenerateResponse(ctx context.Context, request string) (string, error)
}

const defaultMaxHTMLLength = 15000

// SelectorLearner asks the reasoning oracle for a CSS locator set and
// validates the answer before anyone trusts it. Responses for identical
// page markup are cached so a flapping source doesn't re-bill the oracle
// every cycle.
type SelectorLearner struct {
	ai            aiClient
	cache         *gocache.Cache
	maxHTMLLength int
}

func NewSelectorLearner(ai aiClient, maxHTMLLength int) *SelectorLearner {

	if maxHTMLLength <= 0 {
		maxHTMLLength = defaultMaxHTMLLength
	}

	return &SelectorLearner{
		ai:            ai,
		cache:         gocache.New(30*time.Minute, time.Hour),
		maxHTMLLength: maxHTMLLength,
	}
}

func (l *SelectorLearner) LearnSelectors(ctx context.Context, source, sourceURL, html string) (models.PlanSelectors, error) {

	if len(html) > l.maxHTMLLength {
		html = html[:l.maxHTMLLength]
	}

	cacheID := createLearnCacheID(source, html)
	if cached, found := l.cache.Get(cacheID); found {
		return cached.(models.PlanSelectors), nil
	}

	response, err := l.ai.GenerateResponse(ctx, l.selectorsRequest(source, html))
	if err != nil {
		return models.PlanSelectors{}, err
	}

	selectors, err := parseSelectorsResponse(response)
	if err != nil {
		return models.PlanSelectors{}, fmt.Errorf("unusable response for %v: %w", source, err)
	}

	log.Infof("oracle produced selectors for %v: container=%q title=%q location=%q link=%q",
		source, selectors.Container, selectors.Title, selectors.Location, selectors.Link)

	if err = l.cache.Add(cacheID, selectors, gocache.DefaultExpiration); err != nil {
		log.Errorf("failed to cache selectors: %v", err)
	}

	return selectors, nil
}

func (l *SelectorLearner) selectorsRequest(source string, html string) (request string) {

	request = "You are analyzing HTML from the career page of " + source + ". "
	request += "Identify the CSS selectors needed to extract the job listings. "
	request += "Return only a JSON object with these exact keys: " +
		"job_container_selector (the selector for one job posting container), " +
		"title_selector, location_selector, link_selector (each relative to the container). "
	request += "Prefer specific, stable selectors, classes over bare tags. " +
		"Use an empty string for a field that is not present on the page. "
	request += "HTML: " + html
	return request
}

// all four keys must be present; an empty selector per field is acceptable
type selectorsResponse struct {
	Container *string `json:"job_container_selector"`
	Title     *string `json:"title_selector"`
	Location  *string `json:"location_selector"`
	Link      *string `json:"link_selector"`
}

func parseSelectorsResponse(response string) (models.PlanSelectors, error) {

	response = stripMarkdownFences(strings.TrimSpace(response))

	var parsed selectorsResponse
	if err := json.Unmarshal([]byte(response), &parsed); err != nil {
		return models.PlanSelectors{}, fmt.Errorf("response is not valid JSON: %v", err)
	}

	var missing []string
	if parsed.Container == nil {
		missing = append(missing, "job_container_selector")
	}
	if parsed.Title == nil {
		missing = append(missing, "title_selector")
	}
	if parsed.Location == nil {
		missing = append(missing, "location_selector")
	}
	if parsed.Link == nil {
		missing = append(missing, "link_selector")
	}

	if len(missing) > 0 {
		return models.PlanSelectors{}, fmt.Errorf("response is missing keys: %v", strings.Join(missing, ", "))
	}

	return models.PlanSelectors{
		Container: *parsed.Container,
		Title:     *parsed.Title,
		Location:  *parsed.Location,
		Link:      *parsed.Link,
	}, nil
}

func stripMarkdownFences(response string) string {
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}

func createLearnCacheID(source string, html string) string {
	htmlHash := sha256.Sum256([]byte(html))
	return source + hex.EncodeToString(htmlHash[:])
}
