package main

import "github.com/DRSN-tech/bakery-orders/internal/cmd"

//	@title			Bakery Orders API
//	@version		1.0
//	@description	Черновики заказов пекарни, извлечение полей из диктовки и фото, заказы и напоминания о доставке.
//	@BasePath		/api/v1
func main() {
	cmd.Execute()
}
