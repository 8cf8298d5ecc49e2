package main

import "rentalChat/cmd/app"

// @title                       Rental Chat API
// @version                     1.0
// @description                 Conversations between tenants, landlords and administrators of the rental marketplace.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	app.GetApp().LetsGo()
}
