// Package services implements the driving port interfaces.
// The AnalysisService orchestrates the pipeline (quota, cache,
// chunking, generation, extraction) and the UsageGovernor enforces
// rolling-window quotas; both call out only through driven ports.
//
// Services are pure Go with no CGO or external network dependencies.
package services
