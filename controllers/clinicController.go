package controllers

import (
	"TheraBill/handlers"

	"github.com/gin-gonic/gin"
)

func SetupClinicRoutes(router *gin.Engine, patientHandler *handlers.PatientHandler, providerHandler *handlers.ProviderHandler, locationHandler *handlers.LocationHandler, authorizationHandler *handlers.AuthorizationHandler, appointmentHandler *handlers.AppointmentHandler, extractionHandler *handlers.ExtractionHandler, importHandler *handlers.ImportHandler) {
	// Define the routes directly on the router
	router.POST("/patients", patientHandler.CreatePatient)
	router.GET("/patients/:patient_id", patientHandler.GetPatientByID)
	router.PUT("/patients/:patient_id", patientHandler.UpdatePatient)
	router.DELETE("/patients/:patient_id", patientHandler.DeletePatient)
	router.GET("/patients", patientHandler.GetAllPatients)

	router.POST("/providers", providerHandler.CreateProvider)
	router.GET("/providers/:provider_id", providerHandler.GetProviderByID)
	router.PUT("/providers/:provider_id", providerHandler.UpdateProvider)
	router.DELETE("/providers/:provider_id", providerHandler.DeleteProvider)
	router.GET("/providers", providerHandler.GetAllProviders)

	router.POST("/locations", locationHandler.CreateLocation)
	router.GET("/locations", locationHandler.GetAllLocations)
	router.DELETE("/locations/:location_id", locationHandler.DeleteLocation)

	router.POST("/authorizations", authorizationHandler.CreateAuthorization)
	router.GET("/authorizations/:authorization_id", authorizationHandler.GetAuthorizationByID)
	router.PUT("/authorizations/:authorization_id", authorizationHandler.UpdateAuthorization)
	router.DELETE("/authorizations/:authorization_id", authorizationHandler.DeleteAuthorization)
	router.GET("/authorizations", authorizationHandler.GetAllAuthorizations)
	router.GET("/patients/:patient_id/authorizations", authorizationHandler.GetAuthorizationsByPatient)

	router.POST("/appointments", appointmentHandler.CreateAppointment)
	router.GET("/appointments/:appointment_id", appointmentHandler.GetAppointmentByID)
	router.PUT("/appointments/:appointment_id", appointmentHandler.UpdateAppointment)
	router.DELETE("/appointments/:appointment_id", appointmentHandler.DeleteAppointment)
	router.GET("/appointments", appointmentHandler.GetAllAppointments)
	router.GET("/patients/:patient_id/appointments", appointmentHandler.GetAppointmentsByPatient)

	router.POST("/extract", extractionHandler.Extract)
	router.POST("/extract/save", extractionHandler.ExtractAndSave)

	router.POST("/import/appointments/csv", importHandler.ImportAppointmentsCSV)
}
