package models

// ScanOptions is the static scan configuration, built once at startup.
type ScanOptions struct {
	IgnorePatterns      []string `mapstructure:"ignore_patterns"`
	HighPriorityFiles   []string `mapstructure:"high_priority_files"`
	MediumPriorityFiles []string `mapstructure:"medium_priority_files"`
	SourceExtensions    []string `mapstructure:"source_extensions"`
	MaxFileSize         int64    `mapstructure:"max_file_size"`
	MaxFiles            int      `mapstructure:"max_files"`
	TreeDepth           int      `mapstructure:"tree_depth"`
	RespectGitignore    bool     `mapstructure:"respect_gitignore"`
}

// DefaultScanOptions returns the built-in lists and limits.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		IgnorePatterns: []string{
			".git", ".gitignore",
			"node_modules", "package-lock.json",
			"__pycache__", "*.pyc", ".pytest_cache",
			".venv", "venv", "env",
			"dist", "build", "target",
			".DS_Store", "Thumbs.db",
			"*.log", "*.tmp",
		},
		HighPriorityFiles: []string{
			"README.md", "README.rst", "README.txt",
			"package.json", "package-lock.json",
			"requirements.txt", "pyproject.toml", "setup.py",
			"Dockerfile", "docker-compose.yml", "docker-compose.yaml",
			"pom.xml", "build.gradle", "build.gradle.kts",
			"Makefile", "CMakeLists.txt",
			".env.example", "config.yml", "config.yaml",
			"go.mod", "Cargo.toml",
		},
		MediumPriorityFiles: []string{
			"main.py", "__main__.py", "app.py",
			"index.js", "main.js", "app.js",
			"App.jsx", "index.html",
			"main.go", "main.rs", "main.cpp",
		},
		SourceExtensions: []string{
			".py", ".js", ".jsx", ".ts", ".tsx",
			".java", ".cpp", ".c", ".h", ".hpp",
			".go", ".rs", ".php", ".rb", ".swift",
			".kt", ".scala", ".cs", ".html", ".css",
			".vue", ".svelte", ".dart",
		},
		MaxFileSize: 1024 * 1024,
		MaxFiles:    20,
		TreeDepth:   3,
	}
}
