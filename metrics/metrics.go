package metrics

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ethereum-optimism/infra/op-referee/types"
)

const (
	MetricsNamespace = "referee"
)

var (
	Debug                bool = true
	nonAlphanumericRegex      = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	contestantRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "contestant_runs_total",
		Help:      "Count of contestant runs by outcome",
	}, []string{
		"language",
		"status",
	})

	contestantDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "contestant_duration_seconds",
		Help:      "Wall-clock duration of the last successful run of each contestant",
	}, []string{
		"language",
	})

	roundsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "rounds_total",
		Help:      "Count of completed rounds",
	}, []string{
		"result",
	})

	roundWallSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "round_wall_seconds",
		Help:      "Wall-clock time of the last round, including failed contestants",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordErrorDetails concats the error message to the label
// and also tries to clean the label to be a valid Prometheus label
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	label = fmt.Sprintf("%s.%s", label, errToLabel(err))
	RecordError(label)
}

// RecordContestant counts one contestant outcome. The duration gauge only moves on success,
// since failed runs report no duration.
func RecordContestant(language string, status types.Status, duration time.Duration) {
	if !status.IsValid() {
		log.Error("RecordContestant - invalid status", "status", status)
		return
	}
	if Debug {
		log.Debug("metric inc",
			"m", "contestant_runs_total",
			"language", language,
			"status", status,
			"duration", duration)
	}
	contestantRunsTotal.WithLabelValues(language, string(status)).Inc()
	if status == types.StatusSuccess {
		contestantDuration.WithLabelValues(language).Set(duration.Seconds())
	}
}

// RecordRound records the completion of a whole round
func RecordRound(result string, wallTime time.Duration) {
	roundsTotal.WithLabelValues(result).Inc()
	roundWallSeconds.Set(wallTime.Seconds())
}
