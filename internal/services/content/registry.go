// Package content generates the text appended to a user's log for each content strategy.
package content

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/github"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/models"
)

// Strategy describes a content strategy for the dashboard picker.
type Strategy struct {
	ID          models.ContentStrategy `json:"id"`
	Label       string                 `json:"label"`
	Description string                 `json:"description"`
	Icon        string                 `json:"icon"`
}

var strategies = []Strategy{
	{ID: models.StrategyLearningLog, Label: "Learning Log", Description: "Daily learning entries about programming concepts and technologies", Icon: "BookOpen"},
	{ID: models.StrategyDevTip, Label: "Daily Dev Tip", Description: "Practical coding tips and best practices", Icon: "Lightbulb"},
	{ID: models.StrategyGithubStats, Label: "GitHub Stats", Description: "Personalized activity and contribution updates", Icon: "BarChart3"},
	{ID: models.StrategyProjectProgress, Label: "Project Progress", Description: "Updates on ongoing development projects", Icon: "Rocket"},
	{ID: models.StrategyCodeQuality, Label: "Code Quality", Description: "Focus on code improvement and technical excellence", Icon: "Award"},
}

const defaultStatsTimeout = 10 * time.Second

type generator func(ctx context.Context, cred models.Credential, d dates) (string, error)

// Registry maps a strategy id to its text generator.
type Registry struct {
	provider     github.Provider
	statsTimeout time.Duration
	pick         func(n int) int
	now          func() time.Time
	generators   map[models.ContentStrategy]generator
}

// NewRegistry creates a Registry. provider is used by the stats strategy only.
func NewRegistry(provider github.Provider) *Registry {
	r := &Registry{
		provider:     provider,
		statsTimeout: defaultStatsTimeout,
		pick:         rand.Intn,
		now:          time.Now,
	}
	r.generators = map[models.ContentStrategy]generator{
		models.StrategyLearningLog:     r.learningLog,
		models.StrategyDevTip:          r.devTip,
		models.StrategyGithubStats:     r.githubStats,
		models.StrategyProjectProgress: r.projectProgress,
		models.StrategyCodeQuality:     r.codeQuality,
	}
	return r
}

// Strategies lists the available strategies in display order.
func (r *Registry) Strategies() []Strategy {
	out := make([]Strategy, len(strategies))
	copy(out, strategies)
	return out
}

// Generate returns the text for strategy. It never fails: unknown strategies use the
// learning log and any generator error yields a generic update line.
func (r *Registry) Generate(ctx context.Context, strategy models.ContentStrategy, cred models.Credential) (text string) {
	d := newDates(r.now())
	logger := log.WithField("strategy", strategy)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Errorf("content: generator panicked: %v", rec)
			text = defaultText(d)
		}
	}()

	gen, ok := r.generators[strategy]
	if !ok {
		logger.Warn("content: unknown strategy, falling back to learning-log")
		gen = r.generators[models.DefaultStrategy]
	}

	out, err := gen(ctx, cred, d)
	if err != nil || strings.TrimSpace(out) == "" {
		logger.WithError(err).Error("content: generation failed, using default text")
		return defaultText(d)
	}
	return out
}

func defaultText(d dates) string {
	return fmt.Sprintf("📝 Daily Development Update: Continuing the journey of consistent coding and learning [%s]", d.readable)
}

func (r *Registry) choose(items []string) string {
	return items[r.pick(len(items))]
}

func (r *Registry) learningLog(_ context.Context, _ models.Credential, d dates) (string, error) {
	topic := r.choose(learningTopics)
	action := r.choose(learningActions)
	insight := r.choose(learningInsights)
	return fmt.Sprintf("📚 %s %s | %s [Day %d/365]", action, topic, insight, d.dayOfYear), nil
}

func (r *Registry) devTip(_ context.Context, _ models.Credential, d dates) (string, error) {
	category := devTips[r.pick(len(devTips))]
	tip := r.choose(category.tips)
	return fmt.Sprintf("%s Dev Tip: %s #%s [%s]", category.emoji, tip, strings.ToUpper(category.name), d.short), nil
}

func (r *Registry) projectProgress(_ context.Context, _ models.Credential, d dates) (string, error) {
	project := r.choose(projectTypes)
	action := r.choose(progressActions)
	emoji := r.choose(statusEmojis)
	return fmt.Sprintf("%s Project Update: %s for %s | Continuous improvement cycle [%s]", emoji, action, project, d.short), nil
}

func (r *Registry) codeQuality(_ context.Context, _ models.Credential, d dates) (string, error) {
	action := r.choose(qualityActions)
	metric := r.choose(qualityMetrics)
	return fmt.Sprintf("🏆 Code Quality: %s | Result: %s [Quality-focused development on %s]", action, metric, d.short), nil
}

type dates struct {
	year      int
	readable  string // Monday, January 2, 2006
	short     string // Jan 2
	dayOfYear int
}

func newDates(now time.Time) dates {
	return dates{
		year:      now.Year(),
		readable:  now.Format("Monday, January 2, 2006"),
		short:     now.Format("Jan 2"),
		dayOfYear: now.YearDay(),
	}
}
