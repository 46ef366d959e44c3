// Package services implements the business logic layer of the score
// analysis service. It sits between the HTTP handlers and the
// dataprocessing and analytics packages.
//
// # Available Services
//
//	- AnalysisService: resolves a school's data and runs every analysis
//	- HealthService: reports health, readiness and version
//
// # Resolving School Data
//
// A Source names where the school's scores come from. A standalone school
// workbook wins; otherwise the school's rows are cut out of the league
// workbook by its names:
//
//	src := services.Source{LeaguePath: league, SchoolNames: []string{"一中", "第一中学"}}
//	report, err := svc.ClassAssessment(ctx, src, 520, 450)
//
// Workbooks are read through a WorkbookLoader so tests can substitute
// in-memory tables.
//
// # Error Handling
//
// Services return errors from the errors package: read errors for
// unreadable workbooks, not-found errors when no rows match the school and
// validation errors for bad input. The HTTP layer maps each to a status.
//
// # Observability
//
// Every operation runs inside an OpenTelemetry span and records its
// duration and outcome through infrastructure.AnalysisMetrics.
package services
