package models

import "github.com/shopspring/decimal"

// Overview is the admin dashboard summary.
type Overview struct {
	TotalBooks      int64           `json:"totalBooks"`
	AvailableBooks  int64           `json:"availableBooks"`
	TotalCategories int64           `json:"totalCategories"`
	TotalAuthors    int64           `json:"totalAuthors"`
	Orders          OrderCounts     `json:"orders"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
}

type OrderCounts struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Shipped   int64 `json:"shipped"`
	Delivered int64 `json:"delivered"`
	Cancelled int64 `json:"cancelled"`
}

type OrderStatistics struct {
	TotalOrders     int64           `json:"totalOrders"`
	PendingOrders   int64           `json:"pendingOrders"`
	ConfirmedOrders int64           `json:"confirmedOrders"`
	ShippedOrders   int64           `json:"shippedOrders"`
	DeliveredOrders int64           `json:"deliveredOrders"`
	CancelledOrders int64           `json:"cancelledOrders"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
}

type BookStatistics struct {
	TotalBooks      int64 `json:"totalBooks"`
	AvailableBooks  int64 `json:"availableBooks"`
	OutOfStockBooks int64 `json:"outOfStockBooks"`
}

type UserStatistics struct {
	TotalUsers    int64 `json:"totalUsers"`
	ActiveUsers   int64 `json:"activeUsers"`
	AdminUsers    int64 `json:"adminUsers"`
	CustomerUsers int64 `json:"customerUsers"`
}

type AuthorStatistics struct {
	TotalAuthors        int64 `json:"totalAuthors"`
	AuthorsWithBooks    int64 `json:"authorsWithBooks"`
	AuthorsWithoutBooks int64 `json:"authorsWithoutBooks"`
}

// AdminOverview aggregates everything shown on the admin landing page.
type AdminOverview struct {
	Overview     Overview
	LatestOrders []Order
	BestSellers  []Book
}
