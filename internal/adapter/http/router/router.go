package router

import "net/http"

type AuthRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

type AccountRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

type TransferRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

func New(
	authController AuthRouteRegistrar,
	accountController AccountRouteRegistrar,
	transferController TransferRouteRegistrar,
	authMiddleware func(http.Handler) http.Handler,
) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if authController != nil {
		authController.RegisterRoutes(mux, authMiddleware)
	}
	if accountController != nil {
		accountController.RegisterRoutes(mux, authMiddleware)
	}
	if transferController != nil {
		transferController.RegisterRoutes(mux, authMiddleware)
	}

	return mux
}
