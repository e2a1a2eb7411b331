package server

const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <script src="https://cdn.tailwindcss.com"></script>
    <style>
        .row-number {
            font-variant-numeric: tabular-nums;
            font-feature-settings: "tnum";
        }
        .search-input {
            width: 300px;
        }
    </style>
    <script>
        // Debounce function
        function debounce(func, wait) {
            let timeout;
            return function executedFunction(...args) {
                const later = () => {
                    clearTimeout(timeout);
                    func(...args);
                };
                clearTimeout(timeout);
                timeout = setTimeout(later, wait);
            };
        }

        // Update URL with search parameters
        function updateURL(searchQuery, page) {
            const url = new URL(window.location);
            if (searchQuery) {
                url.searchParams.set('q', searchQuery);
            } else {
                url.searchParams.delete('q');
            }
            if (page && page > 1) {
                url.searchParams.set('page', page);
            } else {
                url.searchParams.delete('page');
            }
            window.history.pushState({}, '', url);
        }

        function stateRow(message) {
            const tr = document.createElement('tr');
            const td = document.createElement('td');
            td.colSpan = 5;
            td.className = 'px-4 py-3 text-center text-gray-500';
            td.textContent = message;
            tr.appendChild(td);
            return tr;
        }

        function pageLink(label, query, page) {
            const a = document.createElement('a');
            const params = new URLSearchParams();
            params.set('page', page);
            if (query) {
                params.set('q', query);
            }
            a.href = '?' + params.toString();
            a.textContent = label;
            a.className = 'px-3 py-1 text-sm font-medium text-gray-700 bg-white border border-gray-300 rounded-md hover:bg-gray-50';
            return a;
        }

        // Update pagination and report links for the current query
        function updateControls(query, currentPage, totalPages, count) {
            const container = document.getElementById('paginationContainer');
            container.replaceChildren();
            if (currentPage > 1) {
                container.appendChild(pageLink('Previous', query, currentPage - 1));
            }
            const label = document.createElement('span');
            label.className = 'px-3 py-1 text-sm font-medium text-gray-700 whitespace-nowrap';
            label.textContent = 'Page ' + currentPage + ' of ' + totalPages;
            container.appendChild(label);
            if (currentPage < totalPages) {
                container.appendChild(pageLink('Next', query, currentPage + 1));
            }

            document.getElementById('articleCount').textContent = 'Found ' + count + ' articles';

            const suffix = query ? '?q=' + encodeURIComponent(query) : '';
            document.getElementById('pdfBtn').href = '/report.pdf' + suffix;
            document.getElementById('mdBtn').href = '/report.md' + suffix;
        }

        // Perform search
        function performSearch(query, page) {
            const tbody = document.getElementById('data');
            tbody.replaceChildren(stateRow('Loading articles...'));

            const url = new URL('/rows', window.location.origin);
            url.searchParams.set('q', query);
            url.searchParams.set('page', page || 1);

            fetch(url.toString())
                .then(response => {
                    if (!response.ok) {
                        throw new Error(response.statusText);
                    }
                    const currentPage = parseInt(response.headers.get('X-Current-Page')) || 1;
                    const totalPages = parseInt(response.headers.get('X-Total-Pages')) || 1;
                    const count = parseInt(response.headers.get('X-Articles-Count')) || 0;
                    return response.text().then(html => {
                        tbody.innerHTML = html;
                        updateControls(query, currentPage, totalPages, count);
                        updateURL(query, currentPage);
                    });
                })
                .catch(error => {
                    console.error('Error fetching articles:', error);
                    tbody.replaceChildren(stateRow('Error loading articles'));
                });
        }

        document.addEventListener('DOMContentLoaded', function() {
            const searchInput = document.getElementById('searchInput');
            const debouncedSearch = debounce((query) => {
                performSearch(query, 1);
            }, 250);

            searchInput.addEventListener('input', (e) => {
                debouncedSearch(e.target.value);
            });

            // Handle browser back/forward buttons
            window.addEventListener('popstate', () => {
                const url = new URL(window.location);
                const query = url.searchParams.get('q') || '';
                searchInput.value = query;
                performSearch(query, url.searchParams.get('page') || 1);
            });

            if (document.getElementById('data').dataset.lazy === 'true') {
                const url = new URL(window.location);
                performSearch(searchInput.value, url.searchParams.get('page') || 1);
            }
        });
    </script>
</head>
<body class="bg-white">
    <div class="max-w-6xl mx-auto px-4 py-6">
        <div class="flex justify-between items-center mb-4">
            <h1 class="text-2xl font-semibold text-gray-900 px-4">{{.Title}}</h1>
            <div class="flex items-center space-x-2" style="margin-right: 18px;">
                <div id="searchContainer">
                    <input type="text"
                           id="searchInput"
                           class="search-input px-4 py-2 border border-gray-300 rounded-md focus:outline-none focus:ring-2 focus:ring-blue-500 focus:border-transparent"
                           placeholder="Search by title, author or DOI..."
                           value="{{.SearchQuery}}">
                </div>
                <a id="pdfBtn" href="/report.pdf{{if .SearchQuery}}?q={{.SearchQuery}}{{end}}" download="{{.PDFFileName}}"
                   class="px-4 py-2 text-sm font-medium text-white bg-blue-600 rounded-md hover:bg-blue-700">
                    Download PDF
                </a>
                <a id="mdBtn" href="/report.md{{if .SearchQuery}}?q={{.SearchQuery}}{{end}}"
                   class="px-3 py-2 text-sm font-medium text-gray-700 border border-gray-300 rounded-md hover:bg-gray-50">
                    Markdown
                </a>
            </div>
        </div>

        {{if .Intro}}
        <div class="prose max-w-none px-4 mb-6 text-gray-600">{{.Intro}}</div>
        {{end}}

        <div class="flex justify-between items-center px-4 mb-2">
            <p id="articleCount" class="text-sm text-gray-600">{{if not .Lazy}}Found {{.Count}} articles{{end}}</p>
            <div id="paginationContainer" class="flex items-center space-x-2">
                {{if gt .CurrentPage 1}}
                <a href="?page={{subtract .CurrentPage 1}}{{if .SearchQuery}}&q={{.SearchQuery}}{{end}}" class="px-3 py-1 text-sm font-medium text-gray-700 bg-white border border-gray-300 rounded-md hover:bg-gray-50">
                    Previous
                </a>
                {{end}}
                <span class="px-3 py-1 text-sm font-medium text-gray-700 whitespace-nowrap">
                    Page {{.CurrentPage}} of {{.TotalPages}}
                </span>
                {{if lt .CurrentPage .TotalPages}}
                <a href="?page={{add .CurrentPage 1}}{{if .SearchQuery}}&q={{.SearchQuery}}{{end}}" class="px-3 py-1 text-sm font-medium text-gray-700 bg-white border border-gray-300 rounded-md hover:bg-gray-50">
                    Next
                </a>
                {{end}}
            </div>
        </div>

        <div class="overflow-x-auto">
            <table class="min-w-full divide-y divide-gray-200">
                <thead>
                    <tr>
                        <th class="px-4 py-3 text-left text-xs font-medium text-gray-500 uppercase tracking-wider">#</th>
                        <th class="px-4 py-3 text-left text-xs font-medium text-gray-500 uppercase tracking-wider">Title</th>
                        <th class="px-4 py-3 text-left text-xs font-medium text-gray-500 uppercase tracking-wider">Date</th>
                        <th class="px-4 py-3 text-left text-xs font-medium text-gray-500 uppercase tracking-wider">Authors</th>
                        <th class="px-4 py-3 text-left text-xs font-medium text-gray-500 uppercase tracking-wider">DOI</th>
                    </tr>
                </thead>
                <tbody id="data" class="bg-white divide-y divide-gray-200" data-lazy="{{.Lazy}}">
                    {{template "rows" .Table}}
                </tbody>
            </table>
        </div>
    </div>
</body>
</html>`

const rowsTemplate = `{{if .Message}}<tr class="state-row" data-state="{{.State}}">
    <td colspan="5" class="px-4 py-3 text-center text-gray-500">{{.Message}}</td>
</tr>
{{else}}{{range .Rows}}<tr>
    <td class="row-number px-4 py-3 text-sm text-gray-500">{{.Number}}</td>
    <td class="px-4 py-3 text-sm font-medium text-gray-900">{{.Title}}</td>
    <td class="px-4 py-3 text-sm text-gray-600 whitespace-nowrap">{{.Date}}</td>
    <td class="px-4 py-3 text-sm text-gray-600">{{.Authors}}</td>
    <td class="px-4 py-3 text-sm whitespace-nowrap">
        <a href="{{.DOIURL}}" target="_blank" rel="noopener" class="text-blue-600 hover:text-blue-900">View DOI</a>
    </td>
</tr>
{{end}}{{end}}`
