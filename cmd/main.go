package main

import (
	"studygroup-api/app"
)

// @title           Study Group API
// @version         1.0
// @description     Study group membership and token lifecycle API.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
