package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/hrsaas/transferd/internal/model"
	"github.com/hrsaas/transferd/internal/service"
)

// NewRouter creates the API router with all endpoints registered. Reads are
// open to every authenticated role; workflow actions and reference-data
// writes need hr, user administration needs admin.
func NewRouter(db *sql.DB, jwtSecret string, strictHandover bool) http.Handler {
	mux := http.NewServeMux()

	svc := service.NewTransfers(db, slog.Default(), strictHandover)

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	transfersHandler := &TransfersHandler{Svc: svc}
	handoverHandler := &HandoverHandler{Svc: svc}
	lookupHandler := &LookupHandler{DB: db}
	employeesHandler := &EmployeesHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireHR := RequireRole(model.RoleHR)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Transfer requests: read (all roles), lifecycle actions (hr+).
	mux.Handle("GET /api/transfers", authMW(http.HandlerFunc(transfersHandler.List)))
	mux.Handle("GET /api/transfers/summary", authMW(http.HandlerFunc(transfersHandler.Summary)))
	mux.Handle("POST /api/transfers", authMW(requireHR(http.HandlerFunc(transfersHandler.Create))))
	mux.Handle("GET /api/transfers/{id}", authMW(http.HandlerFunc(transfersHandler.Get)))
	mux.Handle("PUT /api/transfers/{id}", authMW(requireHR(http.HandlerFunc(transfersHandler.Update))))
	mux.Handle("DELETE /api/transfers/{id}", authMW(requireHR(http.HandlerFunc(transfersHandler.Delete))))
	mux.Handle("POST /api/transfers/{id}/submit", authMW(requireHR(http.HandlerFunc(transfersHandler.Submit))))
	mux.Handle("POST /api/transfers/{id}/approve-source", authMW(requireHR(http.HandlerFunc(transfersHandler.ApproveSource))))
	mux.Handle("POST /api/transfers/{id}/approve-target", authMW(requireHR(http.HandlerFunc(transfersHandler.ApproveTarget))))
	mux.Handle("POST /api/transfers/{id}/reject", authMW(requireHR(http.HandlerFunc(transfersHandler.Reject))))
	mux.Handle("POST /api/transfers/{id}/complete", authMW(requireHR(http.HandlerFunc(transfersHandler.Complete))))
	mux.Handle("POST /api/transfers/{id}/cancel", authMW(requireHR(http.HandlerFunc(transfersHandler.Cancel))))

	// Handover checklist: reads for all, writes for the transfer's owners (hr+).
	mux.Handle("GET /api/transfers/{id}/handover", authMW(http.HandlerFunc(handoverHandler.List)))
	mux.Handle("POST /api/transfers/{id}/handover", authMW(requireHR(http.HandlerFunc(handoverHandler.Create))))
	mux.Handle("POST /api/transfers/{id}/handover/{itemID}/complete", authMW(requireHR(http.HandlerFunc(handoverHandler.Complete))))

	// Tenants and reference data: read (all), write (admin).
	mux.Handle("GET /api/tenants/available", authMW(http.HandlerFunc(lookupHandler.AvailableTenants)))
	mux.Handle("POST /api/tenants", authMW(requireAdmin(http.HandlerFunc(lookupHandler.CreateTenant))))
	mux.Handle("GET /api/tenants/{id}", authMW(http.HandlerFunc(lookupHandler.GetTenant)))
	mux.Handle("GET /api/tenants/{id}/departments", authMW(http.HandlerFunc(lookupHandler.Departments)))
	mux.Handle("POST /api/tenants/{id}/departments", authMW(requireAdmin(http.HandlerFunc(lookupHandler.CreateDepartment))))
	mux.Handle("GET /api/tenants/{id}/positions", authMW(http.HandlerFunc(lookupHandler.Positions)))
	mux.Handle("POST /api/tenants/{id}/positions", authMW(requireAdmin(http.HandlerFunc(lookupHandler.CreatePosition))))
	mux.Handle("GET /api/tenants/{id}/grades", authMW(http.HandlerFunc(lookupHandler.Grades)))
	mux.Handle("POST /api/tenants/{id}/grades", authMW(requireAdmin(http.HandlerFunc(lookupHandler.CreateGrade))))

	// Employees: search and photos (all roles read), create (hr+).
	mux.Handle("GET /api/employees", authMW(http.HandlerFunc(employeesHandler.Search)))
	mux.Handle("POST /api/employees", authMW(requireHR(http.HandlerFunc(employeesHandler.Create))))
	mux.Handle("GET /api/employees/{id}", authMW(http.HandlerFunc(employeesHandler.Get)))
	mux.Handle("PUT /api/employees/{id}/photo", authMW(requireHR(http.HandlerFunc(employeesHandler.UploadPhoto))))
	mux.Handle("GET /api/employees/{id}/photo", authMW(http.HandlerFunc(employeesHandler.GetPhoto)))

	return mux
}
