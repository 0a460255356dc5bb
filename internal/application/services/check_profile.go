package services

import (
	"log/slog"

	"github.com/reglet-dev/auditpack/internal/domain/entities"
	"github.com/reglet-dev/auditpack/internal/domain/services"
)

// CheckProfileUseCase lints an aggregated profile.
type CheckProfileUseCase struct {
	linter *services.ProfileLinter
	logger *slog.Logger
}

// NewCheckProfileUseCase creates a new check profile use case.
func NewCheckProfileUseCase(linter *services.ProfileLinter, logger *slog.Logger) *CheckProfileUseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if linter == nil {
		linter = services.NewProfileLinter(logger)
	}
	return &CheckProfileUseCase{linter: linter, logger: logger}
}

// Execute lints the profile. Content problems never produce an error;
// they are returned in the report.
func (uc *CheckProfileUseCase) Execute(profile *entities.Profile) (bool, *entities.LintReport) {
	uc.logger.Info("checking profile", "path", profile.Root)
	report := uc.linter.Lint(profile)
	uc.logger.Info("check complete",
		"valid", report.Summary.Valid,
		"errors", len(report.Errors),
		"warnings", len(report.Warnings))
	return report.Summary.Valid, report
}
