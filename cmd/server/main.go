package main

import (
	_ "workorder/docs"
)

// @title           Work Order API
// @version         1.0
// @description     Maintenance work orders: task lifecycle, assignment, daily logs and operational reports.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	Execute()
}
