package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// PricingPlan is static marketing data; plans are not entities and have no
// storage representation.
type PricingPlan struct {
	Name        string
	Price       int
	Features    []string
	Recommended bool
}

var pricingPlans = []PricingPlan{
	{
		Name:     "Starter",
		Price:    29,
		Features: []string{"Up to 1,000 contacts", "Basic reporting", "Email support"},
	},
	{
		Name:        "Professional",
		Price:       79,
		Features:    []string{"Up to 10,000 contacts", "Advanced analytics", "Priority support", "API access"},
		Recommended: true,
	},
	{
		Name:     "Enterprise",
		Price:    199,
		Features: []string{"Unlimited contacts", "Custom integrations", "24/7 phone support", "Dedicated account manager"},
	},
}

// PagesHandler renders the public marketing site. Presentation only; it
// never touches the entity store.
type PagesHandler struct {
	home    *template.Template
	about   *template.Template
	pricing *template.Template
	login   *template.Template
	Logger  *zap.Logger
}

func NewPagesHandler(logger *zap.Logger) *PagesHandler {
	parse := func(page string) *template.Template {
		return template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/"+page))
	}
	return &PagesHandler{
		home:    parse("home.html"),
		about:   parse("about.html"),
		pricing: parse("pricing.html"),
		login:   parse("login.html"),
		Logger:  logger,
	}
}

type pageData struct {
	PageTitle       string
	MetaDescription string
	Plans           []PricingPlan
	Error           string
}

func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, h.home, pageData{
		PageTitle:       "FlowTada - CRM Solutions for Growing Businesses",
		MetaDescription: "Transform your business with smart CRM solutions. FlowTada helps SMBs streamline customer relationships and boost sales.",
	})
}

func (h *PagesHandler) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, h.about, pageData{PageTitle: "About FlowTada - Your CRM Partner"})
}

func (h *PagesHandler) Pricing(w http.ResponseWriter, r *http.Request) {
	h.render(w, h.pricing, pageData{
		PageTitle: "FlowTada Pricing - Choose Your Plan",
		Plans:     pricingPlans,
	})
}

// RenderLogin draws the portal login page, optionally with a flash error.
func (h *PagesHandler) RenderLogin(w http.ResponseWriter, flashError string) {
	h.render(w, h.login, pageData{
		PageTitle: "Customer Portal - FlowTada",
		Error:     flashError,
	})
}

func (h *PagesHandler) render(w http.ResponseWriter, tmpl *template.Template, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		h.Logger.Error("template render failed", zap.Error(err))
	}
}
