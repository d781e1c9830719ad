package app

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/harentsoaR/dentaclinic-api/internal/config"
	"github.com/harentsoaR/dentaclinic-api/internal/handlers"
	"github.com/harentsoaR/dentaclinic-api/internal/metrics"
	"github.com/harentsoaR/dentaclinic-api/internal/services"
	"github.com/harentsoaR/dentaclinic-api/internal/store"
)

// ServiceModule provides the domain services and the HTTP handlers on top
// of them.
var ServiceModule = fx.Module("services",
	fx.Provide(ProvideNotifier),
	fx.Provide(
		services.NewAuthService,
		services.NewAdminService,
		services.NewDoctorService,
		services.NewPatientService,
		services.NewBillingService,
		ProvideAppointmentService,
		handlers.NewHandler,
	),
)

// ProvideNotifier exposes the notification service as a Notifier and waits
// for in-flight mail on shutdown.
func ProvideNotifier(lc fx.Lifecycle, cfg *config.Config, log *slog.Logger) services.Notifier {
	n := services.NewNotificationService(cfg, log)
	lc.Append(fx.StopHook(n.Wait))
	return n
}

func ProvideAppointmentService(s *store.Store, n services.Notifier, m *metrics.Metrics, log *slog.Logger, cfg *config.Config) *services.AppointmentService {
	return services.NewAppointmentService(s, n, m, log, cfg.EnforceSlotAvailability)
}
