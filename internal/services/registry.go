package services

import (
	"github.com/fyrsmithlabs/healthdash/internal/apiclient"
	"github.com/fyrsmithlabs/healthdash/internal/session"
)

// Registry provides access to every resource wrapper.
type Registry interface {
	Auth() *Auth
	Users() *Users
	Records() *Records
	Reminders() *Reminders
	Appointments() *Appointments
	Doctors() *Doctors
	Chatbot() *Chatbot
	Reports() *Reports
	Search() *Search
	Goals() *Goals
	Water() *Water
	Exercise() *Exercise
	Sleep() *Sleep
}

// Options configures the registry.
type Options struct {
	Client apiclient.Doer
	Store  session.Store
}

type registry struct {
	auth         *Auth
	users        *Users
	records      *Records
	reminders    *Reminders
	appointments *Appointments
	doctors      *Doctors
	chatbot      *Chatbot
	reports      *Reports
	search       *Search
	goals        *Goals
	water        *Water
	exercise     *Exercise
	sleep        *Sleep
}

// NewRegistry creates every wrapper over opts.Client.
func NewRegistry(opts Options) Registry {
	c := opts.Client
	return &registry{
		auth:         &Auth{client: c, store: opts.Store},
		users:        &Users{client: c, store: opts.Store},
		records:      &Records{client: c},
		reminders:    &Reminders{client: c},
		appointments: &Appointments{client: c},
		doctors:      &Doctors{client: c},
		chatbot:      &Chatbot{client: c},
		reports:      &Reports{client: c},
		search:       &Search{client: c},
		goals:        &Goals{client: c},
		water:        &Water{client: c},
		exercise:     &Exercise{client: c},
		sleep:        &Sleep{client: c},
	}
}

func (r *registry) Auth() *Auth                 { return r.auth }
func (r *registry) Users() *Users               { return r.users }
func (r *registry) Records() *Records           { return r.records }
func (r *registry) Reminders() *Reminders       { return r.reminders }
func (r *registry) Appointments() *Appointments { return r.appointments }
func (r *registry) Doctors() *Doctors           { return r.doctors }
func (r *registry) Chatbot() *Chatbot           { return r.chatbot }
func (r *registry) Reports() *Reports           { return r.reports }
func (r *registry) Search() *Search             { return r.search }
func (r *registry) Goals() *Goals               { return r.goals }
func (r *registry) Water() *Water               { return r.water }
func (r *registry) Exercise() *Exercise         { return r.exercise }
func (r *registry) Sleep() *Sleep               { return r.sleep }
