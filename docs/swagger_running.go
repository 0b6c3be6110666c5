package docs

// @title           Running Service API
// @version         1.0
// @description     Running service stores GPS tracks of runs as GeoJSON, serves per-user history and summaries, and signs users in with Kakao.

// @contact.name   API Support

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
