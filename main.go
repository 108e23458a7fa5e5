// main.go
package main

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/epivizor/linelist_analyzer/config"
)

var registry = NewDatasetRegistry()

func main() {
	fmt.Println("started")
	cfg := config.GetConfig()

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		// Generate the upload form page
		tmpl := template.Must(template.ParseFiles("upload.html"))
		err := tmpl.Execute(w, nil)
		if err != nil {
			http.Error(w, "Error rendering upload form", http.StatusInternalServerError)
			return
		}
	})

	http.HandleFunc("/upload", handleUpload)
	http.HandleFunc("/analyze", handleAnalyze)
	http.HandleFunc("/export", handleExport)
	http.HandleFunc("/dashboard", handleDashboard)
	http.HandleFunc("/plot", handlePlot)

	go func() {
		for {
			time.Sleep(time.Minute)
			if removed := registry.Cleanup(cfg.DatasetTTL); removed > 0 {
				log.Printf("expired %d datasets", removed)
			}
			removeOldFiles(cfg.UploadDir, time.Now().Add(-2*cfg.DatasetTTL))
		}
	}()

	fmt.Println("listen on: http://localhost" + cfg.HttpAddr)
	err := http.ListenAndServe(cfg.HttpAddr, nil)
	if err != nil {
		fmt.Println("Error starting server:", err)
		os.Exit(1)
	}
}

func removeOldFiles(dirPath string, maxAge time.Time) error {
	files, err := os.ReadDir(dirPath)
	if err != nil {
		return err
	}

	for _, file := range files {
		filePath := filepath.Join(dirPath, file.Name())

		if file.IsDir() {
			err := removeOldFiles(filePath, maxAge)
			if err != nil {
				return err
			}
		} else {
			fileStat, err := os.Stat(filePath)
			if err != nil {
				return err
			}
			if fileStat.ModTime().Before(maxAge) {
				err := os.Remove(filePath)
				if err != nil {
					return err
				}
				fmt.Printf("Removed file: %s\n", filePath)
			}
		}
	}

	return nil
}
