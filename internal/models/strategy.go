package models

import "strings"

// ContentStrategy identifies a content-generation variant.
type ContentStrategy string

const (
	StrategyLearningLog     ContentStrategy = "learning-log"
	StrategyDevTip          ContentStrategy = "dev-tip"
	StrategyGithubStats     ContentStrategy = "stats"
	StrategyProjectProgress ContentStrategy = "project-progress"
	StrategyCodeQuality     ContentStrategy = "code-quality"

	DefaultStrategy = StrategyLearningLog
)

// AllStrategies lists every variant in display order.
var AllStrategies = []ContentStrategy{
	StrategyLearningLog,
	StrategyDevTip,
	StrategyGithubStats,
	StrategyProjectProgress,
	StrategyCodeQuality,
}

// ParseContentStrategy maps an id to its variant. Unknown ids map to DefaultStrategy.
func ParseContentStrategy(id string) ContentStrategy {
	s := ContentStrategy(strings.TrimSpace(id))
	for _, known := range AllStrategies {
		if s == known {
			return s
		}
	}
	return DefaultStrategy
}

// Known reports whether s is one of the declared variants.
func (s ContentStrategy) Known() bool {
	for _, known := range AllStrategies {
		if s == known {
			return true
		}
	}
	return false
}
