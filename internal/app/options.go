package service

import (
	repository "github.com/okian/roommatch/internal/adapters/repository"
	"github.com/okian/roommatch/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithProfileStore sets the profile backend.
func WithProfileStore(ps repository.ProfileStore) Option {
	return func(s *Service) {
		if ps != nil {
			s.profiles = ps
		}
	}
}

// WithMatchStore sets the saved-match backend.
func WithMatchStore(ms repository.MatchStore) Option {
	return func(s *Service) {
		if ms != nil {
			s.matches = ms
		}
	}
}

// WithStore uses st for both profiles and saved matches. The service closes
// it on Stop.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.profiles = st
			s.matches = st
			s.closers = append(s.closers, st)
		}
	}
}

// WithMaxMatches caps the limit callers may ask for.
func WithMaxMatches(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxMatches = n
		}
	}
}
