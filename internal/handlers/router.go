package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
	"github.com/SAP-F-2025/lab-reservation-service/internal/services"
	"github.com/SAP-F-2025/lab-reservation-service/internal/utils"
)

type HandlerManager struct {
	identityHandler    *IdentityHandler
	deviceHandler      *DeviceHandler
	reservationHandler *ReservationHandler
	reportHandler      *ReportHandler
	healthHandler      *HealthHandler
	authMiddleware     *CasdoorAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	authMiddleware *CasdoorAuthMiddleware,
	appName string,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		identityHandler:    NewIdentityHandler(serviceManager.Identity(), logger),
		deviceHandler:      NewDeviceHandler(serviceManager.Device(), logger),
		reservationHandler: NewReservationHandler(serviceManager.Reservation(), logger),
		reportHandler:      NewReportHandler(serviceManager.Report(), logger),
		healthHandler:      NewHealthHandler(serviceManager, appName, logger),
		authMiddleware:     authMiddleware,
	}
}

// SetupRoutes sets up all API routes under prefix
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, prefix string) {
	router.GET("/health", hm.healthHandler.Health)

	api := router.Group(prefix)

	// Public
	api.POST("/auth/register", hm.identityHandler.Register)

	v1 := api.Group("")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	staffOnly := hm.authMiddleware.RequireRoleMiddleware(models.RoleHead, models.RoleAdmin)
	{
		v1.GET("/users/me", hm.identityHandler.Me)

		// Identity directory - admin and head only
		staff := v1.Group("/staff")
		staff.Use(staffOnly)
		{
			staff.GET("", hm.identityHandler.ListUsers)
			staff.GET("/:id", hm.identityHandler.GetUser)
			staff.PUT("/:id", hm.identityHandler.UpdateUser)
			staff.DELETE("/:id", hm.identityHandler.DeactivateUser)
		}

		devices := v1.Group("/devices")
		{
			devices.GET("", hm.deviceHandler.ListDevices)
			devices.GET("/availability", hm.deviceHandler.Availability)
			devices.GET("/ledger/stats", staffOnly, hm.deviceHandler.Stats)
			devices.GET("/:id", hm.deviceHandler.GetDevice)

			devices.POST("", staffOnly, hm.deviceHandler.CreateDevice)
			devices.PUT("/:id", staffOnly, hm.deviceHandler.UpdateDevice)
			devices.DELETE("/:id", staffOnly, hm.deviceHandler.DeleteDevice)
		}

		reservations := v1.Group("/reservations")
		{
			reservations.POST("", hm.reservationHandler.CreateReservation)
			reservations.GET("", hm.reservationHandler.ListReservations)
			reservations.GET("/ledger/summary", staffOnly, hm.reservationHandler.Summary)
			reservations.GET("/:id", hm.reservationHandler.GetReservation)
			reservations.PUT("/:id", hm.reservationHandler.UpdateReservation)
			reservations.DELETE("/:id", staffOnly, hm.reservationHandler.DeleteReservation)
			reservations.GET("/:id/history", hm.reservationHandler.History)

			// Approval workflow; advisors approve their students, so the
			// service checks authority per step.
			reservations.POST("/:id/approve", hm.reservationHandler.Approve)
			reservations.POST("/:id/reject", hm.reservationHandler.Reject)
			reservations.POST("/:id/return", hm.reservationHandler.Return)
			reservations.POST("/:id/resubmit", hm.reservationHandler.Resubmit)

			reservations.POST("/:id/payment/confirm", hm.reservationHandler.ConfirmPayment)
			reservations.POST("/:id/payment/waive", staffOnly, hm.reservationHandler.WaivePayment)
			reservations.POST("/:id/activate", staffOnly, hm.reservationHandler.Activate)
			reservations.POST("/:id/borrow", staffOnly, hm.reservationHandler.Borrow)
			reservations.POST("/:id/complete", staffOnly, hm.reservationHandler.Complete)
			reservations.POST("/:id/refund", staffOnly, hm.reservationHandler.Refund)
		}

		// Reports - admin and head only
		reportsGroup := v1.Group("/reports")
		reportsGroup.Use(staffOnly)
		{
			reportsGroup.GET("/summary", hm.reportHandler.Summary)
			reportsGroup.GET("/:kind", hm.reportHandler.Period)
			reportsGroup.GET("/:kind/excel", hm.reportHandler.Excel)
		}
	}
}
