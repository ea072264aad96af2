// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/instcms/internal/handler"
	"github.com/olegiv/instcms/internal/middleware"
	"github.com/olegiv/instcms/internal/model"
)

// RouteConfig carries the route-level collaborators that are not part of
// Handler.
type RouteConfig struct {
	// LoginProtection rate limits POST /api/admin/login. Optional.
	LoginProtection *middleware.LoginProtection
	// Health serves /health. Optional.
	Health *handler.HealthHandler
	// UploadsDir is served under /uploads when set.
	UploadsDir string
	// UploadsMaxAge is the Cache-Control max-age of uploaded files.
	UploadsMaxAge int
}

// resource is one content collection with canonical REST routes and the
// script-style aliases of the old site.
type resource struct {
	name string
	// idParam is the path parameter of the public single-item route,
	// "slug" or "id". Empty means no public single-item route.
	idParam   string
	list      http.HandlerFunc
	get       http.HandlerFunc
	adminList http.HandlerFunc
	adminGet  http.HandlerFunc
	create    authedFunc
	update    authedFunc
	delete    authedFunc
}

func (h *Handler) resources() []resource {
	return []resource{
		{
			name: "pages", idParam: "slug",
			list: h.ListPages, get: h.GetPage,
			adminList: h.AdminListPages, adminGet: h.AdminGetPage,
			create: h.CreatePage, update: h.UpdatePage, delete: h.DeletePage,
		},
		{
			name: "news", idParam: "slug",
			list: h.ListNews, get: h.GetNews,
			adminList: h.AdminListNews, adminGet: h.AdminGetNews,
			create: h.CreateNews, update: h.UpdateNews, delete: h.DeleteNews,
		},
		{
			name: "banners",
			list: h.ListBanners, get: h.GetBanner(true),
			adminList: h.AdminListBanners, adminGet: h.GetBanner(false),
			create: h.CreateBanner, update: h.UpdateBanner, delete: h.DeleteBanner,
		},
		{
			name: "council",
			list: h.ListCouncil, get: h.GetCouncilMember(true),
			adminList: h.AdminListCouncil, adminGet: h.GetCouncilMember(false),
			create: h.CreateCouncilMember, update: h.UpdateCouncilMember, delete: h.DeleteCouncilMember,
		},
		{
			name: "provincials",
			list: h.ListProvincials, get: h.GetProvincial(true),
			adminList: h.AdminListProvincials, adminGet: h.GetProvincial(false),
			create: h.CreateProvincial, update: h.UpdateProvincial, delete: h.DeleteProvincial,
		},
		h.publicationResource("circulars", model.PublicationCircular),
		h.publicationResource("newsline", model.PublicationNewsLine),
		{
			name: "gallery", idParam: "slug",
			list: h.ListGallery, get: h.GetGalleryItem,
			adminList: h.AdminListGallery, adminGet: h.AdminGetGalleryItem,
			create: h.CreateGalleryItem, update: h.UpdateGalleryItem, delete: h.DeleteGalleryItem,
		},
	}
}

func (h *Handler) publicationResource(name string, kind model.PublicationKind) resource {
	return resource{
		name:      name,
		idParam:   "id",
		list:      h.ListPublications(kind),
		get:       h.GetPublication(kind, true),
		adminList: h.AdminListPublications(kind),
		adminGet:  h.GetPublication(kind, false),
		create:    h.CreatePublication(kind),
		update:    h.UpdatePublication(kind),
		delete:    h.DeletePublication(kind),
	}
}

// Routes registers every public, admin and legacy route on r.
func (h *Handler) Routes(r chi.Router, rc RouteConfig) {
	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	if rc.Health != nil {
		r.Group(func(r chi.Router) {
			r.Use(h.sessions.LoadAndSave)
			r.Use(middleware.LoadUser(h.sessions, h.db))
			r.Get("/health", rc.Health.Health)
			r.Get("/health/live", rc.Health.Liveness)
			r.Get("/health/ready", rc.Health.Readiness)
		})
	}

	r.Get("/sitemap.xml", h.Sitemap)
	r.Get("/robots.txt", h.Robots)

	if rc.UploadsDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(rc.UploadsDir)))
		r.With(middleware.StaticCache(rc.UploadsMaxAge)).Get("/uploads/*", fs.ServeHTTP)
	}

	resources := h.resources()

	// Session, user and CSRF token checks shared by every admin write,
	// canonical or legacy.
	session := []func(http.Handler) http.Handler{
		h.sessions.LoadAndSave,
		middleware.NoStore,
	}
	signedIn := append(append([]func(http.Handler) http.Handler{}, session...),
		middleware.LoadUser(h.sessions, h.db),
		middleware.RequireAuth,
		h.csrf.Middleware(),
	)
	editor := append(append([]func(http.Handler) http.Handler{}, signedIn...), middleware.RequireEditor())

	r.Route("/api", func(r chi.Router) {
		// Legacy aliases. The catch-all is registered first so the
		// method-specific handlers below override it and any other method
		// on a .php path gets 405 instead of falling through to {slug}.
		for _, res := range resources {
			base := "/" + res.name
			for _, script := range []string{"list.php", "get.php", "create.php", "update.php", "delete.php"} {
				r.HandleFunc(base+"/"+script, MethodNotAllowed)
			}
			r.Get(base+"/list.php", res.list)
			r.Get(base+"/get.php", res.get)
			r.With(editor...).Post(base+"/create.php", authed(res.create))
			r.With(editor...).Put(base+"/update.php", authed(res.update))
			r.With(editor...).Patch(base+"/update.php", authed(res.update))
			r.With(editor...).Delete(base+"/delete.php", authed(res.delete))
		}

		// Public reads.
		for _, res := range resources {
			base := "/" + res.name
			r.Get(base, res.list)
			switch res.idParam {
			case "slug":
				r.Get(base+"/{slug}", res.get)
			case "id":
				r.Get(base+"/{id:[0-9]+}", res.get)
			}
		}
		r.Get("/council/facets", h.CouncilFacets)
		r.Get("/circulars/archive", h.PublicationArchive(model.PublicationCircular))
		r.Get("/newsline/archive", h.PublicationArchive(model.PublicationNewsLine))
		r.Get("/settings", h.PublicSettings)
		r.Get("/menu", h.PublicMenu)

		r.Route("/admin", func(r chi.Router) {
			r.Use(session...)

			r.Group(func(r chi.Router) {
				if rc.LoginProtection != nil {
					r.Use(rc.LoginProtection.Middleware())
				}
				r.Post("/login", h.Login)
			})
			r.Get("/csrf", h.CSRFToken)

			r.Group(func(r chi.Router) {
				r.Use(middleware.LoadUser(h.sessions, h.db))
				r.Use(middleware.RequireAuth)
				r.Use(h.csrf.Middleware())

				r.Post("/logout", authed(h.Logout))
				r.Get("/me", authed(h.Me))
				r.Put("/credentials", authed(h.UpdateCredentials))

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireEditor())

					for _, res := range resources {
						r.Route("/"+res.name, func(r chi.Router) {
							r.Get("/", res.adminList)
							r.Post("/", authed(res.create))
							r.Get("/{id}", res.adminGet)
							r.Put("/{id}", authed(res.update))
							r.Patch("/{id}", authed(res.update))
							r.Delete("/{id}", authed(res.delete))
						})
					}
					r.Get("/menu", h.AdminMenu)
					r.Get("/settings", h.AdminSettings)
					r.Post("/uploads", authed(h.Upload))
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin())

					r.Put("/settings", authed(h.UpdateSettings))
					r.Get("/audit", h.ListAudit)
					r.Route("/users", func(r chi.Router) {
						r.Get("/", h.ListUsers)
						r.Post("/", authed(h.CreateUser))
						r.Get("/{id}", h.GetUser)
						r.Put("/{id}", authed(h.UpdateUser))
						r.Patch("/{id}", authed(h.UpdateUser))
						r.Delete("/{id}", authed(h.DeleteUser))
					})
				})
			})
		})
	})
}
