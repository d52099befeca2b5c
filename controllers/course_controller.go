package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"courseswap_server/services"

	"github.com/gorilla/mux"
)

// CourseController serves the course catalog
type CourseController struct {
	CourseService  *services.CourseService
	CatalogService *services.CatalogService
}

// NewCourseController initializes CourseController
func NewCourseController(courseService *services.CourseService, catalogService *services.CatalogService) *CourseController {
	return &CourseController{CourseService: courseService, CatalogService: catalogService}
}

// GetCoursesHandler lists all courses
func (cc *CourseController) GetCoursesHandler(w http.ResponseWriter, r *http.Request) {
	courses, err := cc.CourseService.GetCourses(r.Context())
	if err != nil {
		log.Printf("❌ Failed to fetch courses: %v", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

// GetSectionsHandler lists the sections of one course
func (cc *CourseController) GetSectionsHandler(w http.ResponseWriter, r *http.Request) {
	courseID := mux.Vars(r)["courseId"]
	sections, err := cc.CourseService.GetSections(r.Context(), courseID)
	if err != nil {
		log.Printf("❌ Failed to fetch sections for course %s: %v", courseID, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sections)
}

type importCatalogRequest struct {
	Key string `json:"key"`
}

// ImportCatalogHandler loads a catalog snapshot from S3 into the tables
func (cc *CourseController) ImportCatalogHandler(w http.ResponseWriter, r *http.Request) {
	var req importCatalogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" {
		http.Error(w, "Invalid request payload, key is required", http.StatusBadRequest)
		return
	}

	result, err := cc.CatalogService.ImportCatalog(r.Context(), req.Key)
	if err != nil {
		log.Printf("❌ Catalog import failed for %s: %v", req.Key, err)
		writeError(w, err)
		return
	}
	log.Printf("✅ Catalog import %s loaded %d courses, %d sections", req.Key, result.Courses, result.Sections)
	writeJSON(w, http.StatusOK, result)
}
