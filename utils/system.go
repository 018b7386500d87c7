package utils

import (
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/sirupsen/logrus"
)

// LogHostInfo records the host's logical core count at startup. The pipeline
// is strictly sequential, so this is diagnostic only: long runs on small VPS
// instances are the usual suspect when a scrape crawls.
func LogHostInfo(log *logrus.Entry) {
	cores, err := cpu.Counts(true)
	if err != nil {
		log.WithError(err).Warn("Could not detect CPU core count")
		return
	}
	log.WithField("logical_cores", cores).Info("Host diagnostics")
}
