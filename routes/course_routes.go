package routes

import (
	"courseswap_server/controllers"
	"courseswap_server/services"

	"github.com/gorilla/mux"
)

// RegisterCourseRoutes sets up routes for the course catalog
func RegisterCourseRoutes(r *mux.Router, courseService *services.CourseService, catalogService *services.CatalogService) {
	controller := controllers.NewCourseController(courseService, catalogService)

	courseRouter := r.PathPrefix("/api/courses").Subrouter()
	courseRouter.HandleFunc("", controller.GetCoursesHandler).Methods("GET")
	courseRouter.HandleFunc("/import", controller.ImportCatalogHandler).Methods("POST")
	courseRouter.HandleFunc("/{courseId}/sections", controller.GetSectionsHandler).Methods("GET")
}
