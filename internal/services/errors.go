// Package services holds the haiku business logic: the error reporter, the
// country resolver and the orchestrator that composes them with the poem
// generator. This file centralizes the failure labels used when reporting so
// that callers and tests agree on them.
package services

// Failure labels recorded in the log store.
const (
	LabelGenerate       = "failed to generate new haiku"
	LabelSaveHaiku      = "failed to save new haiku"
	LabelRandomHaiku    = "failed to get random haiku"
	LabelListHaikus     = "failed to get haiku records"
	LabelFetchHaikuFmt  = "failed to fetch haiku record with id %d"
	LabelCountryFromIP  = "failed to get country from ip address %s"
	LabelCountryRecord  = "failed to get or create country record for %q"
	LabelResolveCountry = "failed to resolve country"
	LabelListLogEntries = "failed to retrieve log records"
	LabelCreateLogEntry = "failed to create error record"
)

// Service names recorded as the log entry origin.
const (
	serviceHaiku    = "HaikuService"
	serviceLocation = "LocationService"
	serviceLogging  = "LoggingService"
)

// Substituted for empty reporter arguments so every row is readable.
const (
	placeholderService = "UnknownService"
	placeholderLabel   = "unlabeled failure"
	placeholderMessage = "no detail provided"
)
