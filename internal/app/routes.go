package app

import (
	"net/http"

	"mentorhub/internal/service/booking"
	"mentorhub/internal/service/dashboard"
	"mentorhub/internal/service/offering"
	"mentorhub/internal/service/review"
	"mentorhub/internal/service/user"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Routes struct {
	r *gin.Engine
}

func NewRoutes(r *gin.Engine) *Routes {
	return &Routes{
		r: r,
	}
}

func (o *Routes) setupInfraRoutes() {
	o.r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	o.r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	o.r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// setupUserRoutes registers profile, mentor directory and skill endpoints
func (o *Routes) setupUserRoutes(uv *user.Service) {
	userHandler := user.NewHandler(uv)

	o.r.GET("/users/:id", userHandler.GetUser)
	o.r.GET("/mentors", userHandler.ListMentors)
	o.r.GET("/mentors/:id", userHandler.GetMentor)
	o.r.GET("/skills", userHandler.ListSkills)

	authorized := o.r.Group("/", IdentityMiddleware())
	{
		authorized.GET("/profile", userHandler.GetProfile)
		authorized.PATCH("/profile", userHandler.UpdateProfile)
		authorized.PUT("/profile/skills", userHandler.UpsertSkill)
		authorized.POST("/users/:id/skills/:skill_id/verify", userHandler.VerifySkill)
	}
}

// setupOfferingRoutes registers catalog endpoints
func (o *Routes) setupOfferingRoutes(ov *offering.Service) {
	offeringHandler := offering.NewHandler(ov)

	o.r.GET("/offerings", offeringHandler.ListOfferings)
	o.r.GET("/offerings/:id", offeringHandler.GetOffering)
	o.r.GET("/mentors/:id/offerings", offeringHandler.ListMentorOfferings)

	authorized := o.r.Group("/", IdentityMiddleware())
	{
		authorized.POST("/offerings", offeringHandler.CreateOffering)
		authorized.PATCH("/offerings/:id", offeringHandler.UpdateOffering)
		authorized.POST("/offerings/:id/deactivate", offeringHandler.DeactivateOffering)
		authorized.GET("/my-offerings", offeringHandler.ListOwnOfferings)
	}
}

// setupBookingRoutes registers booking ledger endpoints
func (o *Routes) setupBookingRoutes(bv *booking.Service) {
	bookingHandler := booking.NewHandler(bv)

	authorized := o.r.Group("/", IdentityMiddleware())
	{
		authorized.POST("/bookings", bookingHandler.RequestBooking)
		authorized.GET("/bookings", bookingHandler.ListBookings)
		authorized.GET("/bookings/:id", bookingHandler.GetBooking)
		authorized.POST("/bookings/:id/status", bookingHandler.SetStatus)
	}
}

// setupReviewRoutes registers review ledger endpoints
func (o *Routes) setupReviewRoutes(rv *review.Service) {
	reviewHandler := review.NewHandler(rv)

	o.r.GET("/users/:id/reviews", reviewHandler.ListUserReviews)

	authorized := o.r.Group("/", IdentityMiddleware())
	{
		authorized.POST("/reviews", reviewHandler.SubmitReview)
		authorized.GET("/reviews", reviewHandler.ListOwnReviews)
	}
}

// setupDashboardRoutes registers the read-side dashboard endpoints
func (o *Routes) setupDashboardRoutes(dv *dashboard.Service) {
	dashboardHandler := dashboard.NewHandler(dv)

	authorized := o.r.Group("/", IdentityMiddleware())
	{
		authorized.GET("/dashboard/stats", dashboardHandler.GetStats)
		authorized.GET("/dashboard/activity", dashboardHandler.GetRecentActivity)
	}
}
