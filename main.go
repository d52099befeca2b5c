package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"courseswap_server/routes"
	"courseswap_server/services"
	"courseswap_server/socket"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Initialize the Socket.IO server for realtime match announcements
	socketServer := socket.NewServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("❌ Socket.IO server error: %v", err)
		}
	}()
	defer socketServer.Close()

	// Initialize Services
	userProfileService := &services.UserProfileService{Dynamo: dynamoService}
	postService := &services.PostService{Dynamo: dynamoService}
	matchRecordStore := &services.MatchRecordStore{Dynamo: dynamoService}
	courseService := &services.CourseService{Dynamo: dynamoService}
	catalogService := &services.CatalogService{
		Dynamo: dynamoService,
		S3:     services.InitializeS3Client(),
		Bucket: os.Getenv("S3_BUCKET_NAME"),
	}
	matchService := &services.MatchService{
		Posts:    postService,
		Matches:  matchRecordStore,
		Profiles: userProfileService,
		Notifier: services.NewNotificationService(os.Getenv("NOTIFY_MATCH_URL")),
		Realtime: &socket.MatchBroadcaster{Server: socketServer},
	}

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Course Swap")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Mount the Socket.IO endpoint
	r.PathPrefix("/socket.io/").Handler(socketServer)

	// Register routes
	routes.RegisterUserProfileRoutes(r, userProfileService)
	routes.RegisterPostRoutes(r, postService, matchService)
	routes.RegisterMatchRoutes(r, matchService)
	routes.RegisterCourseRoutes(r, courseService, catalogService)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
