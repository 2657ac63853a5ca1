package container

import (
	app "fabric-inspector/internal/application"
	"fabric-inspector/internal/domain/port"
)

type Container struct {
	UserService       *app.UserService
	InspectionService *app.InspectionService
}

func New(userRepo port.UserRepository, pipeline app.PipelineConfig, journal port.InspectionJournal, metrics port.InspectionMetrics) *Container {
	userService := app.NewUserService(userRepo)
	inspectionService := app.NewInspectionService(pipeline, journal, metrics)

	return &Container{
		UserService:       userService,
		InspectionService: inspectionService,
	}
}
