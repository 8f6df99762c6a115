package usecase

import (
	"context"

	forexDomain "github.com/allisson/bizdata/internal/forex/domain"
	forexService "github.com/allisson/bizdata/internal/forex/service"
)

type forexUseCase struct {
	provider forexService.RateProvider
}

func (f *forexUseCase) GetUSDINR(ctx context.Context) (*forexDomain.Quote, error) {
	return f.GetQuote(ctx, forexDomain.USD, forexDomain.INR)
}

func (f *forexUseCase) GetQuote(ctx context.Context, base, target string) (*forexDomain.Quote, error) {
	base, err := forexDomain.NormalizeCurrency(base)
	if err != nil {
		return nil, err
	}
	target, err = forexDomain.NormalizeCurrency(target)
	if err != nil {
		return nil, err
	}

	rates, err := f.provider.Latest(ctx, base)
	if err != nil {
		return nil, err
	}
	return rates.Quote(target)
}

func (f *forexUseCase) GetRates(ctx context.Context, base string, symbols []string) (*forexDomain.Rates, error) {
	base, err := forexDomain.NormalizeCurrency(base)
	if err != nil {
		return nil, err
	}

	rates, err := f.provider.Latest(ctx, base)
	if err != nil {
		return nil, err
	}
	return rates.Filter(symbols)
}

// NewForexUseCase creates a ForexUseCase over a rate provider, normally the cached one.
func NewForexUseCase(provider forexService.RateProvider) ForexUseCase {
	return &forexUseCase{provider: provider}
}
