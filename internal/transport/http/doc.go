// Package http implements the HTTP handlers of the score analysis service.
// Handlers stay thin: they decode and validate the request, call the
// analysis service and render the result.
//
// # Request Flow
//
//	HTTP Request → Chi Router → Middleware → Handler → AnalysisService
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// # Endpoints
//
// All analysis endpoints are mounted under /api:
//
//	POST /upload                      multipart league_file (+ school_file)
//	POST /analyze                     school and league analysis at score lines
//	POST /analyze_league              league analysis with subject rankings
//	POST /preview                     first rows of an uploaded workbook
//	POST /analyze_school_subjects     per-subject class comparison
//	POST /analyze_school_total        total score against score lines
//	POST /class_detail                one class's students in a subject
//	POST /analyze_subject_lines       subjects against their own lines
//	POST /analyze_class_subjects      class × subject pass matrix
//	POST /calculate_class_assessment  class ranking by tekong/yiduan rates
//	POST /export_excel                download computed results as .xlsx
//
// Successful JSON responses carry "success": true. Workbook paths sent by
// clients are confined to the upload directory.
//
// # Error Handling
//
// Errors are rendered as RFC 7807 Problem Details by errors.ErrorHandler:
//
//	{
//	    "type": "/errors/validation",
//	    "title": "Bad Request",
//	    "status": 400,
//	    "detail": "Request validation failed",
//	    "error_code": "VALIDATION_FAILED",
//	    "instance": "/api/analyze"
//	}
package http
