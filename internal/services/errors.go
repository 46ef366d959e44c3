package services

import "errors"

// Analysis service errors. They are returned wrapped in an AppError so the
// HTTP layer can map them to a status.
var (
	ErrNoSource          = errors.New("neither a school nor a league workbook was provided")
	ErrNoLeague          = errors.New("league workbook is required")
	ErrNoSchoolNames     = errors.New("school names are required to read school data from the league workbook")
	ErrNoScoreLines      = errors.New("at least one score line is required")
	ErrInvalidScoreLine  = errors.New("score lines must be finite numbers")
	ErrUnknownFileType   = errors.New("file type must be school or league")
	ErrMissingParameters = errors.New("subject and class name are required")
)
