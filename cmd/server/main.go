package main

import "windpermit/internal/app"

// @title           WindPermit API
// @version         1.0
// @description     Бэкенд нарядов-допусков для обслуживания ветряных турбин.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	app.Run()
}
