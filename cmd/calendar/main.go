package main

import (
	"github.com/julienschmidt/httprouter"

	activitieshandler "farmbook/internal/activities/handler"
	activitiesrepo "farmbook/internal/activities/repository"
	activitiesservice "farmbook/internal/activities/service"
	activitiesvalidator "farmbook/internal/activities/validator"
	bookingsrepo "farmbook/internal/bookings/repository"
	"farmbook/internal/calendar/handler"
	"farmbook/internal/calendar/repository"
	"farmbook/internal/calendar/service"
	"farmbook/pkg/app"
	"farmbook/pkg/config"
	"farmbook/pkg/contracts"
)

const ServiceName = "calendar"

// compositeHandler registers the calendar routes together with the
// activity browsing routes they are served alongside.
type compositeHandler struct {
	handlers []contracts.Handler
}

func (c *compositeHandler) RegisterRoutes(router *httprouter.Router) {
	for _, h := range c.handlers {
		h.RegisterRoutes(router)
	}
}

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Calendar service")

	activityRepo := activitiesrepo.NewMongoActivityRepository(cfg)
	calendarService := service.NewCalendarService(
		activityRepo,
		repository.NewMongoEventRepository(cfg),
		bookingsrepo.NewMongoBookingRepository(cfg),
		cfg,
	)
	activityService := activitiesservice.NewActivityService(activityRepo, activitiesvalidator.NewActivityValidator(), cfg)

	cfg.Log.Info("Calendar service initialized", "database", cfg.MongoDatabaseName)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(&compositeHandler{handlers: []contracts.Handler{
		handler.NewCalendarHandler(calendarService, cfg.Log),
		activitieshandler.NewActivityHandler(activityService, cfg.Log),
	}})
	serverApp.Run()
}
