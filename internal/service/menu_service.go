package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/soniaGuev/SecBienestar/internal/domerr"
	"github.com/soniaGuev/SecBienestar/internal/model"
	"github.com/soniaGuev/SecBienestar/internal/repository"
)

// MenuService owns the process-wide menu configuration: the singleton row
// mapping each preference category to the TipoMenu currently on offer. It is
// loaded once at startup; updates go through a single-writer lock and
// re-persist the row before swapping the in-memory copy.
type MenuService interface {
	// Cargar (re)loads the configuration from the store.
	Cargar(ctx context.Context) error
	// MenuParaPreferencia resolves the menu currently offered for a
	// preference category. Returns a NotFound domain error when the category
	// has no menu assigned.
	MenuParaPreferencia(preferencia string) (*model.TipoMenu, error)
	// Actualizar persists a new configuration and swaps it in. Every
	// assigned menu ID must resolve to an existing TipoMenu.
	Actualizar(ctx context.Context, c *model.ConfiguracionMenu) error
}

type menuService struct {
	repo     repository.ConfiguracionRepository
	menuRepo repository.TipoMenuRepository

	mu     sync.RWMutex
	config *model.ConfiguracionMenu
}

func NewMenuService(repo repository.ConfiguracionRepository, menuRepo repository.TipoMenuRepository) MenuService {
	return &menuService{repo: repo, menuRepo: menuRepo}
}

func (s *menuService) Cargar(ctx context.Context) error {
	config, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.config = config
	s.mu.Unlock()
	log.Info().Msg("configuracion de menu cargada")
	return nil
}

func (s *menuService) MenuParaPreferencia(preferencia string) (*model.TipoMenu, error) {
	if !model.PreferenciaValida(preferencia) {
		return nil, domerr.Validation("preferencia de menu no valida: " + preferencia)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.config == nil {
		return nil, domerr.NotFound("configuracion de menu no cargada")
	}
	menu := s.config.MenuPara(preferencia)
	if menu == nil {
		return nil, domerr.NotFound("no hay menu configurado para la preferencia " + preferencia)
	}
	return menu, nil
}

func (s *menuService) Actualizar(ctx context.Context, c *model.ConfiguracionMenu) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	asignados := map[string]*uuid.UUID{
		model.MenuComun:              c.MenuComunID,
		model.MenuVegetariano:        c.MenuVegetarianoID,
		model.MenuCeliacoComun:       c.MenuCeliacoComunID,
		model.MenuCeliacoVegetariano: c.MenuCeliacoVegetarianoID,
	}
	for categoria, id := range asignados {
		if id == nil {
			continue
		}
		if _, err := s.menuRepo.FindByID(ctx, *id); err != nil {
			if errors.Is(err, domerr.ErrNotFound) {
				return domerr.Validation("el menu asignado a " + categoria + " no existe")
			}
			return err
		}
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return wrapTxError(err, "no se pudo actualizar la configuracion de menu")
	}
	// Reload with preloaded menu rows so MenuPara sees fresh associations.
	config, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	s.config = config
	return nil
}
