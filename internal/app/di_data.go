package app

import (
	"context"
	"fmt"

	forexHTTP "github.com/allisson/bizdata/internal/forex/http"
	forexService "github.com/allisson/bizdata/internal/forex/service"
	forexUseCase "github.com/allisson/bizdata/internal/forex/usecase"
	gstinHTTP "github.com/allisson/bizdata/internal/gstin/http"
	gstinUseCase "github.com/allisson/bizdata/internal/gstin/usecase"
	mandiHTTP "github.com/allisson/bizdata/internal/mandi/http"
	mandiRepository "github.com/allisson/bizdata/internal/mandi/repository"
	mandiUseCase "github.com/allisson/bizdata/internal/mandi/usecase"
	ocrHTTP "github.com/allisson/bizdata/internal/ocr/http"
	ocrService "github.com/allisson/bizdata/internal/ocr/service"
	ocrUseCase "github.com/allisson/bizdata/internal/ocr/usecase"
)

// VerifyUseCase returns the GSTIN verification use case.
func (c *Container) VerifyUseCase() (gstinUseCase.VerifyUseCase, error) {
	var err error
	c.verifyUseCaseInit.Do(func() {
		c.verifyUseCase, err = c.initVerifyUseCase()
		if err != nil {
			c.setInitError("verifyUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("verifyUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.verifyUseCase, nil
}

// ForexUseCase returns the exchange rate use case over the cached upstream client.
func (c *Container) ForexUseCase() (forexUseCase.ForexUseCase, error) {
	var err error
	c.forexUseCaseInit.Do(func() {
		c.forexUseCase, err = c.initForexUseCase()
		if err != nil {
			c.setInitError("forexUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("forexUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.forexUseCase, nil
}

// MandiUseCase returns the commodity price use case.
func (c *Container) MandiUseCase() (mandiUseCase.MandiUseCase, error) {
	var err error
	c.mandiUseCaseInit.Do(func() {
		c.mandiUseCase, err = c.initMandiUseCase()
		if err != nil {
			c.setInitError("mandiUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("mandiUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.mandiUseCase, nil
}

// OCRArchiver returns the upload archive, or nil when OCR_ARCHIVE_BUCKET_URL is not set.
func (c *Container) OCRArchiver() (*ocrService.BlobArchiver, error) {
	var err error
	c.ocrArchiverInit.Do(func() {
		c.ocrArchiver, err = c.initOCRArchiver()
		if err != nil {
			c.setInitError("ocrArchiver", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("ocrArchiver"); storedErr != nil {
		return nil, storedErr
	}
	return c.ocrArchiver, nil
}

// OCRUseCase returns the PDF text extraction use case.
func (c *Container) OCRUseCase() (ocrUseCase.OCRUseCase, error) {
	var err error
	c.ocrUseCaseInit.Do(func() {
		c.ocrUseCase, err = c.initOCRUseCase()
		if err != nil {
			c.setInitError("ocrUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("ocrUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.ocrUseCase, nil
}

// VerifyHandler returns the HTTP handler for GSTIN verification.
func (c *Container) VerifyHandler() (*gstinHTTP.VerifyHandler, error) {
	var err error
	c.verifyHandlerInit.Do(func() {
		var useCase gstinUseCase.VerifyUseCase
		useCase, err = c.VerifyUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get verify use case for gstin handler: %w", err)
			c.setInitError("verifyHandler", err)
			return
		}
		c.verifyHandler = gstinHTTP.NewVerifyHandler(useCase, c.config.GSTBatchMax, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("verifyHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.verifyHandler, nil
}

// ForexHandler returns the HTTP handler for exchange rates.
func (c *Container) ForexHandler() (*forexHTTP.ForexHandler, error) {
	var err error
	c.forexHandlerInit.Do(func() {
		var useCase forexUseCase.ForexUseCase
		useCase, err = c.ForexUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get forex use case for forex handler: %w", err)
			c.setInitError("forexHandler", err)
			return
		}
		c.forexHandler = forexHTTP.NewForexHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("forexHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.forexHandler, nil
}

// MandiHandler returns the HTTP handler for commodity prices.
func (c *Container) MandiHandler() (*mandiHTTP.MandiHandler, error) {
	var err error
	c.mandiHandlerInit.Do(func() {
		var useCase mandiUseCase.MandiUseCase
		useCase, err = c.MandiUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get mandi use case for mandi handler: %w", err)
			c.setInitError("mandiHandler", err)
			return
		}
		c.mandiHandler = mandiHTTP.NewMandiHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("mandiHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.mandiHandler, nil
}

// OCRHandler returns the HTTP handler for PDF text extraction.
func (c *Container) OCRHandler() (*ocrHTTP.OCRHandler, error) {
	var err error
	c.ocrHandlerInit.Do(func() {
		var useCase ocrUseCase.OCRUseCase
		useCase, err = c.OCRUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get ocr use case for ocr handler: %w", err)
			c.setInitError("ocrHandler", err)
			return
		}
		c.ocrHandler = ocrHTTP.NewOCRHandler(useCase, c.config.OCRMaxUploadBytes, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("ocrHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.ocrHandler, nil
}

// initVerifyUseCase creates the GSTIN use case.
func (c *Container) initVerifyUseCase() (gstinUseCase.VerifyUseCase, error) {
	baseUseCase := gstinUseCase.NewVerifyUseCase(c.config.GSTBatchMax)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for verify use case: %w", err)
		}
		return gstinUseCase.NewVerifyUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initForexUseCase creates the forex use case over a cached upstream client.
func (c *Container) initForexUseCase() (forexUseCase.ForexUseCase, error) {
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for forex use case: %w", err)
	}

	client := forexService.NewExchangeRateAPIClient(c.config.ForexAPIBaseURL, c.config.ForexTimeout)
	provider := forexService.NewCachedRateProvider(
		client,
		c.config.ForexCacheTTL,
		c.config.ForexStaleTTL,
		businessMetrics,
		c.Logger(),
	)

	baseUseCase := forexUseCase.NewForexUseCase(provider)
	if c.config.MetricsEnabled {
		return forexUseCase.NewForexUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initMandiUseCase creates the mandi use case over the simulated price feed.
func (c *Container) initMandiUseCase() (mandiUseCase.MandiUseCase, error) {
	baseUseCase := mandiUseCase.NewMandiUseCase(mandiRepository.NewStaticPriceRepository())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for mandi use case: %w", err)
		}
		return mandiUseCase.NewMandiUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initOCRArchiver opens the archive bucket and, when configured, its encryption keeper.
func (c *Container) initOCRArchiver() (*ocrService.BlobArchiver, error) {
	if c.config.OCRArchiveBucketURL == "" {
		return nil, nil
	}

	ctx := context.Background()

	var keeper ocrService.Keeper
	if c.config.OCRArchiveKeyURI != "" {
		var err error
		keeper, err = ocrService.OpenKeeper(ctx, c.config.OCRArchiveKeyURI)
		if err != nil {
			return nil, err
		}
	}

	archiver, err := ocrService.OpenBlobArchiver(ctx, c.config.OCRArchiveBucketURL, keeper)
	if err != nil {
		if keeper != nil {
			_ = keeper.Close()
		}
		return nil, err
	}
	return archiver, nil
}

// initOCRUseCase creates the OCR use case over the pdftoppm and tesseract engine.
func (c *Container) initOCRUseCase() (ocrUseCase.OCRUseCase, error) {
	archiver, err := c.OCRArchiver()
	if err != nil {
		return nil, fmt.Errorf("failed to get archiver for ocr use case: %w", err)
	}

	engine := ocrService.NewCommandEngine(ocrService.CommandEngineConfig{
		PdftoppmPath:  c.config.OCRPdftoppmPath,
		TesseractPath: c.config.OCRTesseractPath,
		Language:      c.config.OCRLanguage,
		DPI:           c.config.OCRDPI,
	})

	// A nil *BlobArchiver must not become a non-nil interface.
	var uploadArchiver ocrService.Archiver
	if archiver != nil {
		uploadArchiver = archiver
	}

	baseUseCase := ocrUseCase.NewOCRUseCase(engine, uploadArchiver, c.config.OCRTimeout, c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for ocr use case: %w", err)
		}
		return ocrUseCase.NewOCRUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
